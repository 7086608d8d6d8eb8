package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/iwvelando/quarterly-report/internal/report"
	"github.com/iwvelando/quarterly-report/pkg/constants"
	"go.uber.org/zap"
)

// A4 paper in inches, as Chrome expects.
const (
	a4WidthInches  = 210 / 25.4
	a4HeightInches = 297 / 25.4
	pdfMarginInch  = 0.4
)

// PDFConfig configures the headless Chrome renderer.
type PDFConfig struct {
	// Timeout bounds one rendering, settle delay included.
	Timeout time.Duration
	// Settle is how long the page is left to lay out before printing.
	Settle time.Duration
	// RemoteURL is the DevTools websocket URL of a running browser. When
	// empty a local Chrome is launched.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
}

// PDFExporter prints the document to PDF with headless Chrome.
type PDFExporter struct {
	config      PDFConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewPDFExporter prepares a browser allocator. Chrome itself is only
// started on the first export.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewPDFExporter(logger *zap.Logger, config PDFConfig) *PDFExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = constants.DefaultPDFTimeoutSeconds * time.Second
	}
	if config.Settle < 0 {
		config.Settle = 0
	}

	e := &PDFExporter{config: config, logger: logger}
	if config.RemoteURL != "" {
		e.allocCtx, e.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
		return e
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return e
}

// Format implements Exporter.
func (e *PDFExporter) Format() string { return constants.ExportFormatPDF }

// ContentType implements Exporter.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Export implements Exporter.
func (e *PDFExporter) Export(ctx context.Context, doc *report.Document, w io.Writer) error {
	if err := checkDocument(e.Format(), doc); err != nil {
		return err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(e.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			e.logger.Debug(fmt.Sprintf(format, args...), zap.String("op", "export.PDFExporter.Export"))
		}),
	)
	defer browserCancel()

	// Cancel the browser tab when the caller's deadline passes.
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc.HTML).Do(ctx)
		}),
		chromedp.Sleep(e.config.Settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(pdfMarginInch).
				WithMarginBottom(pdfMarginInch).
				WithMarginLeft(pdfMarginInch).
				WithMarginRight(pdfMarginInch).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NewError(ErrCodeRenderTimeout, e.Format(),
				fmt.Sprintf("rendering timed out after %v", e.config.Timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return NewError(ErrCodeRenderTimeout, e.Format(), "rendering was cancelled", err)
		}
		return NewError(ErrCodeRenderFailed, e.Format(), "chromedp execution failed", err)
	}
	if len(pdf) == 0 {
		return NewError(ErrCodeRenderFailed, e.Format(), "generated PDF is empty", nil)
	}

	if _, err := w.Write(pdf); err != nil {
		return NewError(ErrCodeWriteFailed, e.Format(), "failed to write PDF", err)
	}

	e.logger.Info("PDF rendered",
		zap.String("op", "export.PDFExporter.Export"),
		zap.String("document", doc.ID.String()),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Close shuts down the browser allocator.
func (e *PDFExporter) Close() error {
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}
