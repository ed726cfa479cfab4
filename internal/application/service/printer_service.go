package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"restopos/internal/config"
	"restopos/internal/domain/entity"
	"restopos/pkg/invoice"
	"restopos/pkg/printer"
)

// PrintOutcome reports how an invoice left the system.
type PrintOutcome struct {
	Printed    bool   `json:"printed"`
	Exported   bool   `json:"exported"`
	ExportPath string `json:"export_path,omitempty"`
	ExportTier string `json:"export_tier,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// PrinterStatus describes what the OS spooler currently offers.
type PrinterStatus struct {
	Available []string `json:"available"`
	Default   string   `json:"default,omitempty"`
	HasTarget bool     `json:"has_target"`
}

// PrinterService dispatches rendered invoices to the configured output:
// the OS print spooler, a raw ESC/POS device, or a PDF export when no
// printer answers.
type PrinterService struct {
	spooler  *printer.Spooler
	exporter *printer.Exporter
	device   printer.Printer
	renderer *invoice.Renderer
	cfg      *config.Config
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	spooler *printer.Spooler,
	exporter *printer.Exporter,
	device printer.Printer,
	renderer *invoice.Renderer,
	cfg *config.Config,
) *PrinterService {
	return &PrinterService{
		spooler:  spooler,
		exporter: exporter,
		device:   device,
		renderer: renderer,
		cfg:      cfg,
	}
}

// Status reports the printers the spooler can currently see. Discovery is
// best-effort: a machine without a spooler yields an empty list, not an
// error.
func (s *PrinterService) Status(ctx context.Context) *PrinterStatus {
	status := &PrinterStatus{
		Available: s.spooler.ListPrinters(ctx),
	}
	if name, ok := s.spooler.DefaultPrinter(ctx); ok {
		status.Default = name
	}
	switch s.cfg.Printer.Type {
	case "cups":
		status.HasTarget = s.cfg.Printer.QueueName != "" || status.Default != "" || len(status.Available) > 0
	default:
		status.HasTarget = s.device.IsConnected()
	}
	return status
}

// RenderText produces the fixed-width text form of an invoice.
func (s *PrinterService) RenderText(inv *entity.Invoice) string {
	return s.renderer.Render(inv)
}

// FormatTicket builds the ESC/POS byte stream for raw thermal printers.
func (s *PrinterService) FormatTicket(inv *entity.Invoice) []byte {
	t := printer.NewTicket(s.cfg.Printer.CharWidth)

	t.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(inv.BusinessName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		TextF("NIT: %s", inv.TaxID).
		TextF("Fecha: %s", inv.IssuedAt.Format("02/01/2006 15:04")).
		Text(inv.Number)

	t.SetAlign(printer.AlignLeft)
	if inv.Table != "" {
		t.TextF("Mesa: %s", inv.Table)
	}
	if inv.Server != "" {
		t.TextF("Mesero: %s", inv.Server)
	}

	t.Separator('=')
	for _, l := range inv.Lines {
		t.LineItem(l.Name, l.Quantity, s.renderer.Money(l.UnitPrice), s.renderer.Money(l.Total()))
	}
	t.Separator('-')

	t.KeyValue("SUBTOTAL", s.renderer.Money(inv.Subtotal))
	t.KeyValue(fmt.Sprintf("IVA %d%%", int(math.Round(inv.TaxRate*100))), s.renderer.Money(inv.TaxAmount))
	if inv.Discount > 0 {
		t.KeyValue("DESCUENTO", "-"+s.renderer.Money(inv.Discount))
	}
	t.SetBold(true)
	t.KeyValue("TOTAL", s.renderer.Money(inv.Total))
	t.SetBold(false)

	if inv.PaymentMethod != "" {
		t.LineFeed().TextF("Pago: %s", inv.PaymentMethod)
	}

	t.LineFeed().
		SetAlign(printer.AlignCenter).
		Text("Gracias por su preferencia!").
		FeedLines(3).
		Cut()

	return t.Bytes()
}

// Dispatch sends an invoice to the configured output and degrades to a PDF
// export when no printer can take the job. The invoice never gets lost: the
// outcome says which channel succeeded and carries a warning when only the
// plain-text tier was left.
func (s *PrinterService) Dispatch(ctx context.Context, inv *entity.Invoice, copies int) (*PrintOutcome, error) {
	if copies < 1 {
		copies = 1
	}

	printErr := s.tryPrint(ctx, inv, copies)
	if printErr == nil {
		return &PrintOutcome{Printed: true}, nil
	}
	logrus.WithError(printErr).WithField("invoice", inv.Number).
		Warn("print failed, exporting invoice instead")

	outcome, err := s.Export(ctx, inv)
	if err != nil {
		return nil, err
	}
	outcome.Warning = printErr.Error()
	return outcome, nil
}

func (s *PrinterService) tryPrint(ctx context.Context, inv *entity.Invoice, copies int) error {
	switch s.cfg.Printer.Type {
	case "cups":
		queue := s.cfg.Printer.QueueName
		if queue == "" {
			if _, ok := s.spooler.DefaultPrinter(ctx); !ok {
				if names := s.spooler.ListPrinters(ctx); len(names) > 0 {
					queue = names[0]
				} else {
					return fmt.Errorf("no printers detected")
				}
			}
		}
		return s.spooler.Submit(ctx, s.RenderText(inv), queue, printer.PrintOptions{Copies: copies})
	case "none", "":
		return fmt.Errorf("no printer configured")
	default:
		data := s.FormatTicket(inv)
		for i := 0; i < copies; i++ {
			if err := s.device.Print(data); err != nil {
				return err
			}
		}
		return nil
	}
}

// Export writes the invoice as a PDF artifact in the export directory,
// degrading through the engine chain. The plain-text tier keeps the .pdf
// path so the artifact is always where the operator expects it.
func (s *PrinterService) Export(ctx context.Context, inv *entity.Invoice) (*PrintOutcome, error) {
	dir, err := printer.SpoolDir(s.cfg.Printer.ExportDir)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, inv.Number+".pdf")

	tier, err := s.exporter.Export(ctx, s.RenderText(inv), path)
	if err != nil {
		return nil, err
	}

	outcome := &PrintOutcome{
		Exported:   true,
		ExportPath: path,
		ExportTier: tier.String(),
	}
	if tier == printer.TierPlainText {
		outcome.Warning = "PDF engines unavailable, invoice saved as plain text"
	}
	return outcome, nil
}

// SaveText writes the rendered invoice text next to the PDF artifacts.
func (s *PrinterService) SaveText(inv *entity.Invoice) (string, error) {
	dir, err := printer.SpoolDir(s.cfg.Printer.ExportDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, inv.Number+".txt")
	if err := invoice.Save(s.RenderText(inv), path); err != nil {
		return "", err
	}
	return path, nil
}
