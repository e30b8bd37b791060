package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	money "github.com/rpgo/goal-planner/pkg/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency formats an amount with the currency's symbol, grouping and
// minor-unit digits.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	return money.NewMoneyFromDecimal(amount, currency).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.06) as a percentage ("6.00%").
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

// FormatYears renders a tenor without trailing zeros ("10", "2.5").
func FormatYears(years decimal.Decimal) string { return years.String() }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func decimalFromInt(i int) decimal.Decimal { return decimal.NewFromInt(int64(i)) }
