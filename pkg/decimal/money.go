package decimal

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a Money value carries no currency code.
const DefaultCurrency = "SGD"

// Money is an amount in major currency units tagged with an ISO 4217 code
type Money struct {
	decimal.Decimal
	Currency string
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64, currency string) Money {
	return Money{decimal.NewFromFloat(value), normalize(currency)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal, currency string) Money {
	return Money{d, normalize(currency)}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value, currency string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d, normalize(currency)}, nil
}

func normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// fraction is the number of minor-unit digits for the currency (2 if unknown)
func (m Money) fraction() int32 {
	if cur := money.GetCurrency(m.Currency); cur != nil {
		return int32(cur.Fraction)
	}
	return 2
}

// Round rounds the amount to the currency's minor unit
func (m Money) Round() Money {
	return Money{m.Decimal.Round(m.fraction()), m.Currency}
}

// Annualize converts a per-period amount to a yearly amount
func (m Money) Annualize(periodsPerYear int) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(periodsPerYear))), m.Currency}
}

// PerPeriod converts a yearly amount to a per-period amount
func (m Money) PerPeriod(periodsPerYear int) Money {
	if periodsPerYear <= 0 {
		return m
	}
	return Money{m.Decimal.Div(decimal.NewFromInt(int64(periodsPerYear))), m.Currency}
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal), m.Currency}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal), m.Currency}
}

// Equal checks if this amount and currency equal another
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Decimal.Equal(other.Decimal)
}

// String returns the amount with the currency's minor-unit digits
func (m Money) String() string {
	return m.Decimal.StringFixed(m.fraction())
}

// Format renders the amount with the currency symbol and thousands
// separators, e.g. "$1,234.50" for SGD. Unknown codes fall back to
// "XYZ 1234.50".
func (m Money) Format() string {
	cur := money.GetCurrency(m.Currency)
	if cur == nil {
		return m.Currency + " " + m.String()
	}
	minor := m.Decimal.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}
