package invoice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/domain/entity"
)

func sampleInvoice() *entity.Invoice {
	issued := time.Date(2025, 1, 31, 14, 30, 15, 0, time.UTC)
	return &entity.Invoice{
		Number:       entity.NewInvoiceNumber(issued),
		IssuedAt:     issued,
		BusinessName: "RESTAURANTE EL BUEN SABOR",
		TaxID:        "900123456-7",
		Table:        "5",
		Server:       "Carlos",
		Lines: []entity.InvoiceLine{
			{Name: "Hamburguesa", UnitPrice: 2800000, Quantity: 2},
			{Name: "Gaseosa", UnitPrice: 500000, Quantity: 1},
		},
		Subtotal:      6100000,
		TaxRate:       0.19,
		TaxAmount:     1159000,
		Total:         7259000,
		PaymentMethod: "Efectivo",
	}
}

func TestRenderEveryRowIsFixedWidth(t *testing.T) {
	r := NewRenderer()
	text := r.Render(sampleInvoice())

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.NotEmpty(t, lines)
	for i, line := range lines {
		assert.Lenf(t, []rune(line), Width, "row %d: %q", i, line)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer()
	inv := sampleInvoice()

	first := r.Render(inv)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Render(inv))
	}
}

func TestRenderContent(t *testing.T) {
	r := NewRenderer()
	text := r.Render(sampleInvoice())

	assert.Contains(t, text, "RESTAURANTE EL BUEN SABOR")
	assert.Contains(t, text, "NIT: 900123456-7")
	assert.Contains(t, text, "Factura: FACT-20250131143015")
	assert.Contains(t, text, "Fecha: 2025-01-31  Hora: 14:30:15")
	assert.Contains(t, text, "Mesa: 5  Mesero: Carlos")
	assert.Contains(t, text, "Hamburguesa")
	assert.Contains(t, text, "$28.000")
	assert.Contains(t, text, "$56.000")
	assert.Contains(t, text, "$61.000")
	assert.Contains(t, text, "IVA 19%:")
	assert.Contains(t, text, "$11.590")
	assert.Contains(t, text, "$72.590")
	assert.Contains(t, text, "METODO DE PAGO: Efectivo")
	assert.Contains(t, text, "Gracias por su preferencia!")
}

func TestRenderDiscountRowOnlyWhenApplied(t *testing.T) {
	r := NewRenderer()

	inv := sampleInvoice()
	assert.NotContains(t, r.Render(inv), "DESCUENTO")

	inv.Discount = 500000
	inv.Total = inv.Total - inv.Discount
	text := r.Render(inv)
	assert.Contains(t, text, "DESCUENTO:")
	assert.Contains(t, text, "-$5.000")
}

func TestRenderTruncatesLongNames(t *testing.T) {
	r := NewRenderer()
	inv := sampleInvoice()
	inv.Lines = []entity.InvoiceLine{
		{Name: "Bandeja paisa con chicharron extra grande", UnitPrice: 3500000, Quantity: 1},
	}

	for _, line := range strings.Split(strings.TrimRight(r.Render(inv), "\n"), "\n") {
		assert.Len(t, []rune(line), Width)
	}
}

func TestMoneyFormatting(t *testing.T) {
	r := NewRenderer()

	assert.Equal(t, "$28.000", r.Money(2800000))
	assert.Equal(t, "$5.000", r.Money(500000))
	assert.Equal(t, "$0", r.Money(0))
	assert.Equal(t, "$1.234.567", r.Money(123456700))
}

func TestSaveWritesArtifact(t *testing.T) {
	r := NewRenderer()
	text := r.Render(sampleInvoice())

	path := filepath.Join(t.TempDir(), "FACT-20250131143015.txt")
	require.NoError(t, Save(text, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, text, string(data))
}

func TestSaveFailsOnBadPath(t *testing.T) {
	err := Save("x", filepath.Join(t.TempDir(), "missing", "dir", "f.txt"))
	assert.Error(t, err)
}
