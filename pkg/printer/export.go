package printer

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"restopos/pkg/apperror"
)

// ExportTier reports which engine produced an exported invoice artifact.
type ExportTier int

const (
	// TierPDF means the native PDF engine produced the file.
	TierPDF ExportTier = iota
	// TierWKHTML means the wkhtmltopdf subprocess produced the file.
	TierWKHTML
	// TierPlainText means both PDF engines failed and the invoice text was
	// written as-is; callers should surface a warning.
	TierPlainText
)

func (t ExportTier) String() string {
	switch t {
	case TierPDF:
		return "pdf"
	case TierWKHTML:
		return "wkhtmltopdf"
	case TierPlainText:
		return "plain-text"
	default:
		return "unknown"
	}
}

// Exporter writes invoice text to a PDF file, degrading through a chain of
// engines: the embedded PDF library first, the wkhtmltopdf binary second,
// and a plain-text dump (keeping the requested path) as the last resort so
// the invoice is never lost.
type Exporter struct {
	runner CommandRunner

	// renderPDF is swappable in tests to force the fallback path.
	renderPDF func(text, path string) error
}

// NewExporter creates an Exporter with the default engines.
func NewExporter() *Exporter {
	return &Exporter{
		runner:    execRunner{},
		renderPDF: renderWithFPDF,
	}
}

// NewExporterWithRunner creates an Exporter with a custom subprocess runner
// and an optional renderPDF override (pass nil to keep the default).
func NewExporterWithRunner(r CommandRunner, renderPDF func(text, path string) error) *Exporter {
	e := &Exporter{runner: r, renderPDF: renderPDF}
	if e.renderPDF == nil {
		e.renderPDF = renderWithFPDF
	}
	return e
}

// Export writes the invoice text to path as a PDF. It returns the tier that
// succeeded; only when every tier fails does it return an error.
func (e *Exporter) Export(ctx context.Context, text, path string) (ExportTier, error) {
	if err := e.renderPDF(text, path); err == nil {
		return TierPDF, nil
	}

	if err := e.renderWithWKHTML(ctx, text, path); err == nil {
		return TierWKHTML, nil
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return TierPlainText, apperror.NewIOError(path, err)
	}
	return TierPlainText, nil
}

// renderWithFPDF lays the monospaced invoice text onto an A4 page.
func renderWithFPDF(text, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 15, 20)
	pdf.AddPage()
	pdf.SetFont("Courier", "", 10)

	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252 for Spanish accents
	for _, line := range strings.Split(text, "\n") {
		pdf.CellFormat(0, 4.5, tr(line), "", 1, "L", false, 0, "")
	}
	return pdf.OutputFileAndClose(path)
}

// renderWithWKHTML shells out to wkhtmltopdf with the invoice wrapped in a
// minimal <pre> page.
func (e *Exporter) renderWithWKHTML(ctx context.Context, text, path string) error {
	tmp, err := os.CreateTemp("", "invoice-*.html")
	if err != nil {
		return apperror.NewIOError("export", err)
	}
	htmlPath := tmp.Name()
	defer os.Remove(htmlPath)

	page := fmt.Sprintf(
		`<html><head><meta charset="utf-8"></head><body><pre style="font-family: monospace; font-size: 10pt;">%s</pre></body></html>`,
		html.EscapeString(text),
	)
	if _, err := tmp.WriteString(page); err != nil {
		tmp.Close()
		return apperror.NewIOError(htmlPath, err)
	}
	if err := tmp.Close(); err != nil {
		return apperror.NewIOError(htmlPath, err)
	}

	_, stderr, err := e.runner.Run(ctx, "wkhtmltopdf", "--quiet", htmlPath, path)
	if err != nil {
		diag := strings.TrimSpace(stderr)
		if diag == "" {
			diag = err.Error()
		}
		return apperror.NewPrintError(diag)
	}
	return nil
}
