package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	MinTransactionAmount = decimal.NewFromInt(10)
	MaxTransactionAmount = decimal.NewFromInt(1_000_000_000)
	MaxInitialBalance    = decimal.NewFromInt(1_000_000_000_000)
)

func isTenDigits(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) == 10 && digitsOnly(trimmed)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// validateAmount reports why amount is not a whole number of minor units
// within the accepted range, or "" when it is.
func validateAmount(field string, amount decimal.Decimal) string {
	switch {
	case !amount.IsInteger():
		return field + " must be a whole number"
	case amount.LessThan(MinTransactionAmount):
		return field + " must be at least " + MinTransactionAmount.String()
	case amount.GreaterThan(MaxTransactionAmount):
		return field + " must not exceed " + MaxTransactionAmount.String()
	}
	return ""
}
