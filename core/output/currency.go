// Package output - Locale-aware currency display
package output

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
)

// DefaultLocale is the display locale when none is configured
const DefaultLocale = "nb-NO"

// Languages that write the currency symbol after the amount
var symbolAfter = map[string]bool{
	"nb": true, "nn": true, "no": true, "sv": true, "da": true, "fi": true,
	"de": true, "fr": true, "es": true, "it": true, "pl": true, "cs": true,
}

// CurrencyFormatter renders whole currency amounts for one locale
type CurrencyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
	symbol  string
	after   bool
}

// CurrencyOption configures a formatter
type CurrencyOption func(*CurrencyFormatter)

// WithSymbol overrides the locale's currency symbol
func WithSymbol(symbol string) CurrencyOption {
	return func(f *CurrencyFormatter) { f.symbol = symbol }
}

// NewCurrencyFormatter builds a formatter for a BCP 47 locale and an ISO
// 4217 currency code
func NewCurrencyFormatter(locale string, code types.Currency, opts ...CurrencyOption) (*CurrencyFormatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "unknown locale", err).WithContext("locale", locale)
	}
	unit, err := currency.ParseISO(string(code))
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "unknown currency", err).WithContext("currency", string(code))
	}

	base, _ := tag.Base()
	f := &CurrencyFormatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
		after:   symbolAfter[base.String()],
	}
	f.symbol = f.printer.Sprint(currency.NarrowSymbol(unit))
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Currency is the ISO code being formatted
func (f *CurrencyFormatter) Currency() string {
	return f.unit.String()
}

// Format renders a whole amount with grouping and no fraction digits
func (f *CurrencyFormatter) Format(amount int64) string {
	digits := f.printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
	return f.place(digits)
}

// FormatDecimal rounds half away from zero and renders the result
func (f *CurrencyFormatter) FormatDecimal(d decimal.Decimal) string {
	return f.Format(d.Round(0).IntPart())
}

// Number renders a plain number in the formatter's locale
func (f *CurrencyFormatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

func (f *CurrencyFormatter) place(digits string) string {
	switch {
	case f.symbol == "":
		return digits
	case f.after:
		return digits + " " + f.symbol
	case utf8.RuneCountInString(f.symbol) == 1:
		if strings.HasPrefix(digits, "-") {
			return "-" + f.symbol + digits[1:]
		}
		return f.symbol + digits
	}
	return f.symbol + " " + digits
}
