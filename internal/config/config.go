// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating it.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/iwvelando/quarterly-report/pkg/format"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
	"github.com/iwvelando/quarterly-report/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for quarterly-report.
type Configuration struct {
	Report  metrics.Input `mapstructure:"report" yaml:"report"`
	Locale  string        `mapstructure:"locale" yaml:"locale,omitempty" validate:"required"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=json console"`
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=pretty csv json"`
}

// ExportConfig holds document export options.
type ExportConfig struct {
	Format    string    `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=html pdf xlsx all"`
	Directory string    `mapstructure:"directory" yaml:"directory,omitempty"`
	PDF       PDFConfig `mapstructure:"pdf" yaml:"pdf,omitempty"`
}

// PDFConfig holds headless Chrome options for PDF export.
type PDFConfig struct {
	TimeoutSeconds int    `mapstructure:"timeoutSeconds" yaml:"timeoutSeconds,omitempty" validate:"gte=0"`
	SettleMillis   int    `mapstructure:"settleMillis" yaml:"settleMillis,omitempty" validate:"gte=0"`
	RemoteURL      string `mapstructure:"remoteURL" yaml:"remoteURL,omitempty" validate:"omitempty,url"`
	NoSandbox      bool   `mapstructure:"noSandbox" yaml:"noSandbox,omitempty"`
}

// Timeout returns the rendering timeout, defaulted when unset.
func (p PDFConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return constants.DefaultPDFTimeoutSeconds * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Settle returns the layout delay before printing.
func (p PDFConfig) Settle() time.Duration {
	return time.Duration(p.SettleMillis) * time.Millisecond
}

// DefaultConfiguration returns the configuration used when no file is given:
// the seed report in the default locale.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Report: metrics.Seed(),
		Locale: constants.DefaultLocale,
		Output: OutputConfig{Format: constants.OutputFormatPretty},
		Export: ExportConfig{
			Format:    constants.ExportFormatHTML,
			Directory: constants.DefaultExportDirectory,
			PDF: PDFConfig{
				TimeoutSeconds: constants.DefaultPDFTimeoutSeconds,
				SettleMillis:   constants.DefaultPDFSettleMillis,
			},
		},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return LoadConfigurationFromReader(bytes.NewReader(data))
}

// LoadConfigurationFromReader loads a YAML configuration from r on top of
// DefaultConfiguration. Environment variables prefixed with QUARTERLY_REPORT
// override file values, e.g. QUARTERLY_REPORT_REPORT_INGRESOSQ2.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfiguration())

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	configuration := DefaultConfiguration()
	if err := v.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.Report = configuration.Report.Normalize()

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return configuration, nil
}

// setDefaults registers every known key so that environment overrides apply
// even when the file omits them.
func setDefaults(v *viper.Viper, defaults *Configuration) {
	for _, key := range metrics.Keys() {
		value, err := defaults.Report.Value(key)
		if err == nil {
			v.SetDefault("report."+key, value)
		}
	}
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.outputFile", defaults.Logging.OutputFile)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("export.format", defaults.Export.Format)
	v.SetDefault("export.directory", defaults.Export.Directory)
	v.SetDefault("export.pdf.timeoutSeconds", defaults.Export.PDF.TimeoutSeconds)
	v.SetDefault("export.pdf.settleMillis", defaults.Export.PDF.SettleMillis)
	v.SetDefault("export.pdf.remoteURL", defaults.Export.PDF.RemoteURL)
	v.SetDefault("export.pdf.noSandbox", defaults.Export.PDF.NoSandbox)
}

// Validate checks the structural constraints of the configuration and that
// the locale can drive currency formatting.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := format.NewMoney(c.Locale); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Money returns the currency formatter for the configured locale.
func (c *Configuration) Money() (format.Money, error) {
	return format.NewMoney(c.Locale)
}

// ValidateConfiguration checks the consistency of the configured report and
// returns its finding messages as warnings.
func (c *Configuration) ValidateConfiguration() []string {
	money, err := c.Money()
	if err != nil {
		money = format.DefaultMoney()
	}
	in := c.Report.Normalize()
	return validation.Messages(validation.Validate(in, metrics.Compute(in), money))
}
