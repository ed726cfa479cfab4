// Package invoice renders finalized sales as fixed-width text documents.
// Rendering is deterministic: identical invoices produce byte-identical
// output, which the golden tests rely on.
package invoice

import (
	"fmt"
	"math"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"restopos/internal/domain/entity"
	"restopos/pkg/apperror"
)

// Width is the total column width of a rendered invoice. Every emitted row
// is padded to exactly this many characters.
const Width = 50

const (
	nameWidth   = 23
	qtyWidth    = 4
	priceWidth  = 10
	amountWidth = 12
)

// Renderer formats invoices. Amounts are stored in minor currency units and
// displayed as whole currency with locale thousands separators.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer creates a renderer using Colombian Spanish number formatting.
func NewRenderer() *Renderer {
	return &Renderer{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// Money renders a minor-unit amount as whole currency, e.g. "$28.000".
func (r *Renderer) Money(minor int64) string {
	units := int64(math.Round(float64(minor) / 100))
	return r.printer.Sprintf("$%v", number.Decimal(units))
}

// pad right-pads a row to the fixed document width, truncating if needed.
func pad(s string) string {
	if len([]rune(s)) > Width {
		return string([]rune(s)[:Width])
	}
	return s + strings.Repeat(" ", Width-len([]rune(s)))
}

// center centers a row inside the fixed document width.
func center(s string) string {
	runes := []rune(s)
	if len(runes) >= Width {
		return string(runes[:Width])
	}
	left := (Width - len(runes)) / 2
	return pad(strings.Repeat(" ", left) + s)
}

// truncate limits an item name to the name column.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Render produces the invoice text: header block, item table, totals block
// and payment footer. The discount row appears only when a discount was
// applied.
func (r *Renderer) Render(inv *entity.Invoice) string {
	sep := strings.Repeat("=", Width)
	line := strings.Repeat("-", Width)

	rows := []string{
		sep,
		center(inv.BusinessName),
		sep,
		pad(fmt.Sprintf("NIT: %s", inv.TaxID)),
		pad(fmt.Sprintf("Fecha: %s  Hora: %s",
			inv.IssuedAt.Format("2006-01-02"), inv.IssuedAt.Format("15:04:05"))),
		pad(fmt.Sprintf("Factura: %s", inv.Number)),
	}

	if inv.Table != "" || inv.Server != "" {
		rows = append(rows, pad(fmt.Sprintf("Mesa: %s  Mesero: %s", inv.Table, inv.Server)))
	}

	rows = append(rows,
		sep,
		center("DETALLE DEL PEDIDO"),
		line,
		fmt.Sprintf("%-*s %*s %*s %*s",
			nameWidth, "DESCRIPCION", qtyWidth, "CANT", priceWidth, "PRECIO", priceWidth, "TOTAL"),
		line,
	)

	for _, l := range inv.Lines {
		rows = append(rows, fmt.Sprintf("%-*s %*d %*s %*s",
			nameWidth, truncate(l.Name, nameWidth),
			qtyWidth, l.Quantity,
			priceWidth, r.Money(l.UnitPrice),
			priceWidth, r.Money(l.Total())))
	}

	taxLabel := fmt.Sprintf("IVA %d%%:", int(math.Round(inv.TaxRate*100)))

	rows = append(rows, line,
		totalRow("SUBTOTAL:", r.Money(inv.Subtotal)),
		totalRow(taxLabel, r.Money(inv.TaxAmount)),
	)
	if inv.Discount > 0 {
		rows = append(rows, totalRow("DESCUENTO:", "-"+r.Money(inv.Discount)))
	}
	rows = append(rows,
		sep,
		totalRow("TOTAL:", r.Money(inv.Total)),
		sep,
		pad(fmt.Sprintf("METODO DE PAGO: %s", inv.PaymentMethod)),
		sep,
		center("Gracias por su preferencia!"),
		sep,
	)

	return strings.Join(rows, "\n") + "\n"
}

func totalRow(label, amount string) string {
	return fmt.Sprintf("%-*s%*s", Width-amountWidth, label, amountWidth, amount)
}

// Save writes the rendered text to path as UTF-8. Failures surface to the
// caller, never swallowed.
func Save(text, path string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return apperror.NewIOError(path, err)
	}
	return nil
}
