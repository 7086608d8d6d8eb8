package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iwvelando/quarterly-report/internal/report"
	"github.com/iwvelando/quarterly-report/internal/server"
	"github.com/iwvelando/quarterly-report/internal/spreadsheet"
	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/iwvelando/quarterly-report/pkg/correction"
	"github.com/iwvelando/quarterly-report/pkg/format"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
	"github.com/iwvelando/quarterly-report/pkg/output"
	"github.com/iwvelando/quarterly-report/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// errFindings signals a report with error-severity findings.
var errFindings = errors.New("report has inconsistencies")

func newEvaluator(logger *zap.Logger, money format.Money) *report.Evaluator {
	return report.NewEvaluator(logger, metrics.NewEngine(logger, constants.DefaultEngineCacheSize), money)
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compute metrics and validate the configured report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			// CLI override takes precedence over config
			if outputFormat == "" {
				outputFormat = conf.Output.Format
			}
			if outputFormat == "" {
				outputFormat = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			money, err := conf.Money()
			if err != nil {
				return err
			}
			rep := newEvaluator(logger, money).Evaluate(conf.Report)

			if err := writeReport(cmd.OutOrStdout(), outputFormat, rep, money); err != nil {
				return err
			}

			if validation.HasErrors(rep.Findings) {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	return cmd
}

func writeReport(w io.Writer, outputFormat string, rep report.Report, money format.Money) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, rep, money)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, rep, money)
	default:
		output.PrettyFormat(w, rep, money)
		return nil
	}
}

// reportFile is the YAML shape written by fix and import; it loads back as
// a configuration file.
type reportFile struct {
	Report metrics.Input `yaml:"report"`
}

func writeYAML(w io.Writer, in metrics.Input) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reportFile{Report: in}); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

func newFixCommand(opts *rootOptions) *cobra.Command {
	var (
		actions []string
		sets    []string
	)

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Edit fields and apply corrective actions, printing the resulting report as YAML",
		Long: "Edit fields and apply corrective actions, printing the resulting report as YAML.\n\n" +
			"Available actions:\n" + actionHelp(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			state := report.NewState(conf.Report)
			for _, assignment := range sets {
				key, value, ok := strings.Cut(assignment, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, expected key=value", assignment)
				}
				if state, err = state.Set(strings.TrimSpace(key), value); err != nil {
					return err
				}
			}
			for _, name := range actions {
				action, err := correction.ParseAction(name)
				if err != nil {
					return err
				}
				if state, err = state.Apply(action); err != nil {
					return err
				}
				logger.Info("correction applied",
					zap.String("op", "main.fix"),
					zap.String("action", name),
				)
			}

			money, err := conf.Money()
			if err != nil {
				return err
			}
			rep := newEvaluator(logger, money).Evaluate(state.Input())
			for _, f := range rep.Findings {
				logger.Warn("remaining finding: "+f.Message,
					zap.String("op", "main.fix"),
					zap.String("code", f.Code),
				)
			}

			return writeYAML(cmd.OutOrStdout(), rep.Input)
		},
	}
	cmd.Flags().StringArrayVar(&actions, "action", nil, "corrective action to apply (repeatable)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment key=value applied before actions (repeatable)")
	return cmd
}

func actionHelp() string {
	var b strings.Builder
	for _, a := range correction.Actions() {
		fmt.Fprintf(&b, "  %-18s %s\n", a, a.Label())
	}
	return b.String()
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		exportFormat string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the printable report as HTML, PDF or XLSX",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if exportFormat == "" {
				exportFormat = conf.Export.Format
			}
			if err := validation.ValidateExportFormat(exportFormat); err != nil {
				return err
			}
			if outDir == "" {
				outDir = conf.Export.Directory
			}

			money, err := conf.Money()
			if err != nil {
				return err
			}
			builder, err := report.NewBuilder(logger, money)
			if err != nil {
				return err
			}
			doc, err := builder.Build(newEvaluator(logger, money).Evaluate(conf.Report))
			if err != nil {
				return err
			}

			registry, pdf := newRegistry(logger, conf.Export.PDF)
			defer func() { _ = pdf.Close() }()

			formats := []string{exportFormat}
			if exportFormat == constants.ExportFormatAll {
				formats = registry.Formats()
			}

			paths, err := registry.ExportAll(cmd.Context(), doc, outDir, formats)
			if err != nil {
				return err
			}
			for _, p := range paths {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&exportFormat, "format", "", "export format override: html, pdf, xlsx, all")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory override")
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Read report figures from an XLSX workbook and print them as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open workbook: %w", err)
			}
			defer func() { _ = f.Close() }()

			in, warnings, err := spreadsheet.Import(f)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				logger.Warn("import warning: "+w,
					zap.String("op", "main.import"),
					zap.String("file", file),
				)
			}

			state := report.NewState(conf.Report)
			previous := state.Input()
			state = state.Replace(in)
			logger.Info("Imported report",
				zap.String("op", "main.import"),
				zap.String("file", file),
				zap.Bool("changed", state.Input() != previous),
			)
			return writeYAML(cmd.OutOrStdout(), state.Input())
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the XLSX workbook")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var serverConfigPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web editor and report API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}

			logger, err := initializeLogger(cfg.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			registry, pdf := newRegistry(logger, cfg.PDF)
			defer func() { _ = pdf.Close() }()

			handler, err := server.NewHandler(logger, cfg, version, registry)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Serve(ctx, logger, cfg, handler)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

