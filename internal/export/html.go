package export

import (
	"context"
	"io"

	"github.com/iwvelando/quarterly-report/internal/report"
	"github.com/iwvelando/quarterly-report/pkg/constants"
)

// HTMLExporter writes the document as a standalone HTML page.
type HTMLExporter struct{}

// Format implements Exporter.
func (HTMLExporter) Format() string { return constants.ExportFormatHTML }

// ContentType implements Exporter.
func (HTMLExporter) ContentType() string { return "text/html; charset=utf-8" }

// Export implements Exporter.
func (h HTMLExporter) Export(_ context.Context, doc *report.Document, w io.Writer) error {
	if err := checkDocument(h.Format(), doc); err != nil {
		return err
	}
	if _, err := io.WriteString(w, doc.HTML); err != nil {
		return NewError(ErrCodeWriteFailed, h.Format(), "failed to write document", err)
	}
	return nil
}
