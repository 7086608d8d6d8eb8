// Package constants provides shared constants for the quarterly-report application.
package constants

// Financial constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MarginDivisorFloor is the smallest revenue used as a margin denominator,
	// keeping margins finite when revenue is zero or negative.
	MarginDivisorFloor = 1.0

	// BreakdownTolerance is the absolute currency-unit tolerance between the
	// Q2 expense breakdown sum and Q2 operating expenses.
	BreakdownTolerance = 1.0

	// NetMarginLimit bounds the plausible Q2 net margin, in percent, on both sides.
	NetMarginLimit = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Export format constants
const (
	ExportFormatHTML = "html"
	ExportFormatPDF  = "pdf"
	ExportFormatXLSX = "xlsx"

	// ExportFormatAll requests every registered export format.
	ExportFormatAll = "all"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of configuration keys.
	EnvPrefix = "QUARTERLY_REPORT"
)

// Locale defaults
const (
	// DefaultLocale is the BCP 47 tag driving currency formatting.
	DefaultLocale = "es-CL"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRequestTimeoutSeconds bounds a single API request, PDF rendering included.
	DefaultRequestTimeoutSeconds = 60
)

// Export defaults
const (
	// DefaultPDFSettleMillis is how long the rendered page is left to lay out
	// before printing.
	DefaultPDFSettleMillis = 500

	// DefaultPDFTimeoutSeconds bounds one PDF rendering.
	DefaultPDFTimeoutSeconds = 30

	// DefaultExportDirectory is where the CLI writes exported documents.
	DefaultExportDirectory = "."
)

// State constants
const (
	// MaxHistory is the number of previous records kept for undo.
	MaxHistory = 100

	// DefaultEngineCacheSize is the number of memoized metric computations.
	DefaultEngineCacheSize = 64
)
