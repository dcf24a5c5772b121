// Package money parses and formats Korean won amounts. Won has no minor
// unit, so amounts are integral decimals; formatting groups by 만 (10^4) and
// 억 (10^8).
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrFractionalWon  = errors.New("amount must be a whole won value")
	ErrAmountTooLarge = errors.New("amount exceeds twelve digits")
)

// ParseWon parses a positive integral won amount.
func ParseWon(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.IsInteger() {
		return decimal.Zero, ErrFractionalWon
	}
	return amount, nil
}

// FormatWon renders an amount like "7000원", "6만원" or "600억7000원".
func FormatWon(amount decimal.Decimal) string {
	digits := amount.Truncate(0).Abs().String()
	if len(digits) > 12 {
		// Upstream validation keeps amounts far below this bound.
		return digits + "원"
	}
	switch {
	case len(digits) <= 4:
		return digits + "원"
	case len(digits) <= 8:
		return digits[:len(digits)-4] + "만" + lowGroup(digits[len(digits)-4:]) + "원"
	default:
		man := lowGroup(digits[len(digits)-8 : len(digits)-4])
		if man != "" {
			man += "만"
		}
		return digits[:len(digits)-8] + "억" + man + lowGroup(digits[len(digits)-4:]) + "원"
	}
}

// lowGroup strips a four-digit group of leading zeroes, or drops it entirely
// when zero.
func lowGroup(group string) string {
	trimmed := strings.TrimLeft(group, "0")
	return trimmed
}

// Won builds an integral decimal from an int64, mostly for tests.
func Won(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}

// DescribeLeftover is the human message for a partial payment.
func DescribeLeftover(leftover decimal.Decimal) string {
	return fmt.Sprintf("대금 지급이 성공적으로 이뤄졌습니다. 앞으로 %s만 지급하시면 됩니다.", FormatWon(leftover))
}
