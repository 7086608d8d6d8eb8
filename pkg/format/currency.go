// Package format renders monetary amounts and percentages the way the
// report displays them.
package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/iwvelando/quarterly-report/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money formats amounts in one locale's currency with zero fractional
// digits. Digit grouping follows the locale's CLDR number symbols.
type Money struct {
	unit    currency.Unit
	printer *message.Printer
	prefix  string
	suffix  string
}

var symbols = map[string]string{
	"CLP": "$", "USD": "$", "ARS": "$", "MXN": "$", "COP": "$", "UYU": "$",
	"EUR": "€", "GBP": "£", "JPY": "¥", "BRL": "R$",
}

// suffixLanguages write the currency symbol after the amount.
var suffixLanguages = map[string]bool{
	"de": true, "fr": true, "it": true, "fi": true, "sv": true, "da": true,
	"nb": true, "pl": true, "cs": true, "sk": true, "hu": true, "ro": true,
	"ru": true, "uk": true, "bg": true, "el": true, "hr": true, "sl": true,
	"lt": true, "lv": true, "et": true,
}

// NewMoney builds a formatter for a BCP 47 locale such as "es-CL". The
// currency is the one used in the locale's region.
func NewMoney(locale string) (Money, error) {
	if strings.TrimSpace(locale) == "" {
		locale = constants.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Money{}, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	unit, _ := currency.FromTag(tag)
	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String()
	}

	m := Money{unit: unit, printer: message.NewPrinter(tag)}
	base, _ := tag.Base()
	switch {
	case suffixLanguages[base.String()],
		(base.String() == "es" || base.String() == "pt") && unit == currency.EUR:
		m.suffix = "\u00a0" + symbol
	case !ok:
		m.prefix = symbol + " "
	default:
		m.prefix = symbol
	}
	return m, nil
}

// DefaultMoney returns the es-CL / CLP formatter.
func DefaultMoney() Money {
	m, err := NewMoney(constants.DefaultLocale)
	if err != nil {
		panic(err)
	}
	return m
}

// CurrencyCode returns the ISO 4217 code, e.g. "CLP".
func (m Money) CurrencyCode() string {
	return m.unit.String()
}

// Format returns the amount rounded half away from zero to whole currency
// units with the currency symbol and thousands separators (e.g. "-$1.234").
// Amounts that round to zero format without a sign, so -0.4 is "$0".
// Non-finite amounts format as zero.
func (m Money) Format(amount float64) string {
	negative, digits := m.digits(amount)
	if negative {
		return "-" + m.prefix + digits + m.suffix
	}
	return m.prefix + digits + m.suffix
}

// Number returns the amount formatted like Format but without a currency symbol.
func (m Money) Number(amount float64) string {
	negative, digits := m.digits(amount)
	if negative {
		return "-" + digits
	}
	return digits
}

func (m Money) digits(amount float64) (bool, string) {
	rounded := decimal.NewFromFloat(mathutil.Finite(amount)).Round(0)
	printer := m.printer
	if printer == nil {
		printer = message.NewPrinter(language.MustParse(constants.DefaultLocale))
	}
	// The value is already integral, so the printer never rounds.
	digits := printer.Sprint(number.Decimal(rounded.Abs().InexactFloat64(), number.MaxFractionDigits(0)))
	return rounded.IsNegative(), digits
}
