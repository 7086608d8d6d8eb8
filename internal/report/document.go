package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/iwvelando/quarterly-report/pkg/format"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Document is a complete, self-contained rendering of one report, ready to
// be handed to an exporter.
type Document struct {
	ID        uuid.UUID
	Title     string
	FileName  string
	HTML      string
	Report    Report
	Money     format.Money
	CreatedAt time.Time
}

// Builder renders reports into documents.
type Builder struct {
	logger   *zap.Logger
	money    format.Money
	page     *template.Template
	narrator *narrator
	now      func() time.Time
}

// NewBuilder parses the embedded report template.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewBuilder(logger *zap.Logger, money format.Money) (*Builder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	page, err := template.ParseFS(templateFiles, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	n, err := newNarrator()
	if err != nil {
		return nil, err
	}

	return &Builder{logger: logger, money: money, page: page, narrator: n, now: time.Now}, nil
}

// Title returns the document title, e.g.
// "Informe Financiero LIBRERÍA ATLAS - 2DO TRIMESTRE 2024".
func Title(r Report) string {
	return fmt.Sprintf("Informe Financiero %s - %s %d", r.Input.Company, r.Input.Period, r.Input.Year)
}

// FileName returns an ASCII file stem derived from the title.
func FileName(r Report) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), Title(r))
	if err != nil {
		stripped = Title(r)
	}

	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(stripped) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Build synchronously renders the report. The result does not depend on any
// rendering surface.
func (b *Builder) Build(r Report) (*Document, error) {
	v, err := b.view(r)
	if err != nil {
		return nil, err
	}

	var html bytes.Buffer
	if err := b.page.ExecuteTemplate(&html, "report", v); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	doc := &Document{
		ID:        uuid.New(),
		Title:     Title(r),
		FileName:  FileName(r),
		HTML:      html.String(),
		Report:    r,
		Money:     b.money,
		CreatedAt: b.now(),
	}

	b.logger.Debug("report document built",
		zap.String("op", "report.Build"),
		zap.String("id", doc.ID.String()),
		zap.String("title", doc.Title),
		zap.Int("bytes", len(doc.HTML)),
	)
	return doc, nil
}
