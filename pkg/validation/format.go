package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iwvelando/quarterly-report/pkg/constants"
)

var (
	outputFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON}
	exportFormats = []string{constants.ExportFormatHTML, constants.ExportFormatPDF, constants.ExportFormatXLSX, constants.ExportFormatAll}
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("expected output format of %s, got %s", strings.Join(outputFormats, ", "), format)
	}
	return nil
}

// ValidateExportFormat checks if the export format is one of the supported formats.
func ValidateExportFormat(format string) error {
	if !slices.Contains(exportFormats, format) {
		return fmt.Errorf("expected export format of %s, got %s", strings.Join(exportFormats, ", "), format)
	}
	return nil
}
