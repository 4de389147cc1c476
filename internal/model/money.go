package model

import "github.com/shopspring/decimal"

// Money is a currency amount that always renders with two decimal places.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds v half-up (away from zero) to cents.
func NewMoney(v decimal.Decimal) Money {
	return Money{v.Round(2)}
}

// MoneyFromFloat converts a float amount, rounding half-up to cents.
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

func (m Money) String() string {
	return m.StringFixed(2)
}

// MarshalJSON writes the amount as a bare number with exactly two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

// UnmarshalJSON accepts quoted or bare numbers.
func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}
