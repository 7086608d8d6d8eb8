// Package export writes built report documents out as HTML, PDF or XLSX.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/iwvelando/quarterly-report/internal/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Exporter converts a document into one output format.
type Exporter interface {
	Format() string
	ContentType() string
	Export(ctx context.Context, doc *report.Document, w io.Writer) error
}

// ErrUnknownFormat is returned when no exporter is registered for a format.
var ErrUnknownFormat = errors.New("unknown export format")

// Error codes.
const (
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeWriteFailed     = "WRITE_FAILED"
)

// Error is an export failure with a machine-readable code.
type Error struct {
	Code    string
	Format  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Format + " export: " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an export error.
func NewError(code, format, message string, cause error) *Error {
	return &Error{Code: code, Format: format, Message: message, Cause: cause}
}

func checkDocument(format string, doc *report.Document) error {
	if doc == nil {
		return NewError(ErrCodeInvalidDocument, format, "document is nil", nil)
	}
	if doc.HTML == "" {
		return NewError(ErrCodeInvalidDocument, format, "document has no content", nil)
	}
	return nil
}

// Registry looks exporters up by format name.
type Registry struct {
	logger    *zap.Logger
	exporters map[string]Exporter
}

// NewRegistry registers the given exporters.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewRegistry(logger *zap.Logger, exporters ...Exporter) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{logger: logger, exporters: make(map[string]Exporter, len(exporters))}
	for _, e := range exporters {
		r.exporters[e.Format()] = e
	}
	return r
}

// Get returns the exporter for format.
func (r *Registry) Get(format string) (Exporter, error) {
	e, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return e, nil
}

// Formats lists the registered formats in name order.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	return "." + format
}

// ExportAll writes the document in every requested format into dir,
// concurrently. Files are named after the document. It returns the written
// paths in format order, or the first error.
func (r *Registry) ExportAll(ctx context.Context, doc *report.Document, dir string, formats []string) ([]string, error) {
	exporters := make([]Exporter, 0, len(formats))
	for _, f := range formats {
		e, err := r.Get(f)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, e)
	}
	if doc == nil {
		return nil, NewError(ErrCodeInvalidDocument, "all", "document is nil", nil)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	paths := make([]string, len(exporters))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range exporters {
		e := e
		path := filepath.Join(dir, doc.FileName+Extension(e.Format()))
		paths[i] = path
		g.Go(func() error {
			return r.exportFile(gctx, e, doc, path)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("report exported",
		zap.String("op", "export.ExportAll"),
		zap.String("document", doc.ID.String()),
		zap.Strings("paths", paths),
	)
	return paths, nil
}

func (r *Registry) exportFile(ctx context.Context, e Exporter, doc *report.Document, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return NewError(ErrCodeWriteFailed, e.Format(), "failed to create "+path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = NewError(ErrCodeWriteFailed, e.Format(), "failed to close "+path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := e.Export(ctx, doc, f); err != nil {
		r.logger.Error("export failed",
			zap.String("op", "export.exportFile"),
			zap.String("format", e.Format()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
