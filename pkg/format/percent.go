package format

import "fmt"

// Percent renders a margin with exactly two decimals and a trailing "%".
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// PercentDelta renders the difference current-previous like Percent.
func PercentDelta(previous, current float64) string {
	return Percent(current - previous)
}
