// Package server serves the report editor and its JSON API over HTTP.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/quarterly-report/internal/export"
	"github.com/iwvelando/quarterly-report/internal/report"
	"github.com/iwvelando/quarterly-report/internal/spreadsheet"
	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/iwvelando/quarterly-report/pkg/correction"
	"github.com/iwvelando/quarterly-report/pkg/format"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
	"github.com/iwvelando/quarterly-report/pkg/output"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	money         format.Money
	evaluator     *report.Evaluator
	builder       *report.Builder
	exporters     *export.Registry
}

// NewHandler constructs the HTTP handler that serves the web UI and report API.
func NewHandler(logger *zap.Logger, cfg *Config, version string, exporters *export.Registry) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
		if err := cfg.normalize(); err != nil {
			return nil, err
		}
	}
	if exporters == nil {
		exporters = export.NewRegistry(logger, export.HTMLExporter{}, export.XLSXExporter{})
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	money, err := format.NewMoney(cfg.Locale)
	if err != nil {
		return nil, err
	}
	builder, err := report.NewBuilder(logger, money)
	if err != nil {
		return nil, err
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		money:         money,
		evaluator:     report.NewEvaluator(logger, metrics.NewEngine(logger, constants.DefaultEngineCacheSize), money),
		builder:       builder,
		exporters:     exporters,
	}

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout()))

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)

		r.Route("/report", func(r chi.Router) {
			r.Use(h.limitBody)
			r.Get("/seed", h.handleSeed)
			r.Post("/", h.handleEvaluate)
			r.Post("/fields", h.handleField)
			r.Post("/corrections/{action}", h.handleCorrection)
			r.Post("/import", h.handleImport)
			r.Post("/export/{format}", h.handleExport)
		})
	})

	r.Handle("/*", http.FileServer(http.FS(sub)))

	return r, nil
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug("request served",
					zap.String("op", "server.requestLogger"),
					zap.String("requestId", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func (h *handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.maxUploadSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
		}
		next.ServeHTTP(w, r)
	})
}

type fieldRequest struct {
	Input metrics.Input `json:"input"`
	Key   string        `json:"key"`
	Value string        `json:"value"`
}

type importResponse struct {
	output.Payload
	Warnings []string `json:"warnings"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleSeed(w http.ResponseWriter, _ *http.Request) {
	h.respondReport(w, metrics.Seed(), "server.handleSeed")
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var in metrics.Input
	if !h.decode(w, r, &in, "server.handleEvaluate") {
		return
	}
	h.respondReport(w, in, "server.handleEvaluate")
}

func (h *handler) handleField(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleField"

	var req fieldRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	in, err := req.Input.WithField(req.Key, req.Value)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.respondReport(w, in, op)
}

func (h *handler) handleCorrection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCorrection"

	action, err := correction.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}

	var in metrics.Input
	if !h.decode(w, r, &in, op) {
		return
	}

	corrected, err := correction.Apply(action, in.Normalize())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.logger.Info("correction applied",
		zap.String("op", op),
		zap.String("action", string(action)),
	)
	h.respondReport(w, corrected, op)
}

func (h *handler) handleImport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleImport"

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing spreadsheet file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	in, warnings, err := spreadsheet.Import(file)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if warnings == nil {
		warnings = []string{}
	}

	h.writeJSON(w, http.StatusOK, importResponse{
		Payload:  output.NewPayload(h.evaluator.Evaluate(in), h.money),
		Warnings: warnings,
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	exporter, err := h.exporters.Get(chi.URLParam(r, "format"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}

	var in metrics.Input
	if !h.decode(w, r, &in, op) {
		return
	}

	doc, err := h.builder.Build(h.evaluator.Evaluate(in))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(r.Context(), doc, &buf); err != nil {
		status := http.StatusBadGateway
		var exportErr *export.Error
		if errors.As(err, &exportErr) && exportErr.Code == export.ErrCodeRenderTimeout {
			status = http.StatusGatewayTimeout
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", doc.FileName+export.Extension(exporter.Format())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode report: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondReport(w http.ResponseWriter, in metrics.Input, op string) {
	rep := h.evaluator.Evaluate(in)
	h.logger.Debug("report computed",
		zap.String("op", op),
		zap.Int("findings", len(rep.Findings)),
	)
	h.writeJSON(w, http.StatusOK, output.NewPayload(rep, h.money))
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("report request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}

// Serve listens on cfg.Address until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, logger *zap.Logger, cfg *Config, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "server.Serve"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped", zap.String("op", "server.Serve"))
	return nil
}
