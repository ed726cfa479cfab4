package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/domain/entity"
	"restopos/pkg/invoice"
	"restopos/pkg/printer"
)

// failingRunner simulates a machine with no print subsystem installed.
type failingRunner struct{}

func (failingRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	return "", "", errors.New("exec: " + name + ": executable file not found in $PATH")
}

func testInvoice() *entity.Invoice {
	issued := time.Date(2025, 1, 31, 14, 30, 15, 0, time.UTC)
	return &entity.Invoice{
		Number:       entity.NewInvoiceNumber(issued),
		IssuedAt:     issued,
		BusinessName: "RESTAURANTE EL BUEN SABOR",
		TaxID:        "900123456-7",
		Lines: []entity.InvoiceLine{
			{Name: "Hamburguesa", UnitPrice: 2800000, Quantity: 2},
		},
		Subtotal:      5600000,
		TaxRate:       0.19,
		TaxAmount:     1064000,
		Total:         6664000,
		PaymentMethod: "Efectivo",
	}
}

func newPrinterService(t *testing.T) *PrinterService {
	t.Helper()
	return NewPrinterService(
		printer.NewSpoolerWithRunner(failingRunner{}),
		printer.NewExporter(),
		printer.NewNullPrinter(),
		invoice.NewRenderer(),
		testConfig(t),
	)
}

func TestDispatchFallsBackToExport(t *testing.T) {
	svc := newPrinterService(t)

	outcome, err := svc.Dispatch(context.Background(), testInvoice(), 1)
	require.NoError(t, err)

	assert.False(t, outcome.Printed)
	assert.True(t, outcome.Exported)
	assert.NotEmpty(t, outcome.Warning)
	assert.FileExists(t, outcome.ExportPath)
}

func TestExportProducesPDF(t *testing.T) {
	svc := newPrinterService(t)

	outcome, err := svc.Export(context.Background(), testInvoice())
	require.NoError(t, err)

	assert.Equal(t, "pdf", outcome.ExportTier)
	data, err := os.ReadFile(outcome.ExportPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestSaveTextArtifact(t *testing.T) {
	svc := newPrinterService(t)
	inv := testInvoice()

	path, err := svc.SaveText(inv)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), inv.Number)
	assert.Contains(t, string(data), "Gracias por su preferencia!")
}

func TestFormatTicketContent(t *testing.T) {
	svc := newPrinterService(t)

	data := svc.FormatTicket(testInvoice())

	// starts with ESC @ (initialize)
	require.Greater(t, len(data), 2)
	assert.Equal(t, byte(0x1B), data[0])
	assert.Equal(t, byte('@'), data[1])

	text := string(data)
	assert.Contains(t, text, "RESTAURANTE EL BUEN SABOR")
	assert.Contains(t, text, "Hamburguesa")
	assert.Contains(t, text, "IVA 19%")
	assert.Contains(t, text, "TOTAL")
	assert.Contains(t, text, "Gracias por su preferencia!")
	// ends with a cut command
	assert.Contains(t, text, string([]byte{0x1D, 'V', 0x00}))
}

func TestFormatTicketRoundsTaxPercent(t *testing.T) {
	svc := newPrinterService(t)

	inv := testInvoice()
	inv.TaxRate = 0.29 // 0.29*100 is 28.999... in float64

	text := string(svc.FormatTicket(inv))
	assert.Contains(t, text, "IVA 29%")
	assert.NotContains(t, text, "IVA 28%")
}

func TestStatusWithoutSpooler(t *testing.T) {
	svc := newPrinterService(t)

	status := svc.Status(context.Background())
	assert.Empty(t, status.Available)
	assert.Empty(t, status.Default)
	assert.False(t, status.HasTarget)
}
