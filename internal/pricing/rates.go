package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/SailQuote/internal/model"
)

// RateTable converts base-currency prices into the customer's currency.
// Rates are units of the target currency per one unit of Base.
type RateTable struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// DefaultRates returns the built-in USD-based exchange rates.
func DefaultRates() RateTable {
	return RateTable{
		Base: model.FallbackCurrency,
		Rates: map[string]float64{
			"USD": 1.00,
			"AUD": 1.52,
			"EUR": 0.92,
			"GBP": 0.79,
			"CAD": 1.36,
			"NZD": 1.66,
		},
	}
}

// Rate returns the multiplier for code. The base currency is always 1.
func (t RateTable) Rate(code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == t.Base {
		return 1, nil
	}
	r, ok := t.Rates[code]
	if !ok || r <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return r, nil
}

// Supports reports whether code can be priced.
func (t RateTable) Supports(code string) bool {
	_, err := t.Rate(code)
	return err == nil
}

// Resolve returns code normalised to upper case when supported, or the
// fallback currency otherwise. Use it on detected currencies; explicit
// customer choices should go through Rate so errors surface.
func (t RateTable) Resolve(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if t.Supports(code) {
		return code
	}
	return model.FallbackCurrency
}

// Convert multiplies a base-currency amount by the rate for code.
func (t RateTable) Convert(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	r, err := t.Rate(code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(decimal.NewFromFloat(r)), nil
}

// Codes returns the supported currency codes sorted alphabetically.
func (t RateTable) Codes() []string {
	seen := map[string]bool{t.Base: true}
	codes := []string{t.Base}
	for c := range t.Rates {
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	return codes
}

var currencySymbols = map[string]string{
	"USD": "$",
	"AUD": "A$",
	"CAD": "C$",
	"NZD": "NZ$",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice renders an amount with its currency symbol, e.g. "A$770.64".
// Codes without a known symbol are written as a prefix: "CHF 12.00".
func FormatPrice(m model.Money, code string) string {
	if sym, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return sym + m.String()
	}
	return strings.ToUpper(code) + " " + m.String()
}
