package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/iwvelando/quarterly-report/internal/config"
	"github.com/iwvelando/quarterly-report/internal/export"
	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	// Logs go to stderr unless a file is configured; stdout carries the report.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		cfg.OutputPaths = []string{loggingConfig.OutputFile}
		cfg.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return cfg.Build()
}

// loadConfiguration reads the configuration file. A missing default file
// yields the built-in configuration; a missing explicit file is an error.
func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(path)
	if err == nil {
		return conf, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		conf = config.DefaultConfiguration()
		return conf, conf.Validate()
	}
	return nil, err
}

// setup loads the configuration and builds the logger shared by the report
// subcommands.
func (o *rootOptions) setup(cmd *cobra.Command) (*config.Configuration, *zap.Logger, error) {
	conf, err := loadConfiguration(o.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return conf, logger, nil
}

func newRegistry(logger *zap.Logger, pdf config.PDFConfig) (*export.Registry, *export.PDFExporter) {
	pdfExporter := export.NewPDFExporter(logger, export.PDFConfig{
		Timeout:   pdf.Timeout(),
		Settle:    pdf.Settle(),
		RemoteURL: pdf.RemoteURL,
		NoSandbox: pdf.NoSandbox,
	})
	return export.NewRegistry(logger, export.HTMLExporter{}, export.XLSXExporter{}, pdfExporter), pdfExporter
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "quarterly-report",
		Short:         "Quarterly financial report metrics, validation and export",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newCheckCommand(opts),
		newFixCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return root
}

func main() {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
		os.Exit(1)
	}
}
