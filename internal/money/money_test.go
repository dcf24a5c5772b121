package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWon(t *testing.T) {
	amount, err := ParseWon("10000")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(10000)))

	amount, err = ParseWon(" 3000 ")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(3000)))
}

func TestParseWonRejectsBadInput(t *testing.T) {
	cases := map[string]error{
		"":       ErrInvalidAmount,
		"abc":    ErrInvalidAmount,
		"0":      ErrInvalidAmount,
		"-500":   ErrInvalidAmount,
		"100.50": ErrFractionalWon,
	}
	for raw, want := range cases {
		_, err := ParseWon(raw)
		assert.ErrorIs(t, err, want, "input %q", raw)
	}
}

func TestFormatWon(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "0원"},
		{1, "1원"},
		{7000, "7000원"},
		{60000, "6만원"},
		{61234, "6만1234원"},
		{100000000, "1억원"},
		{100007000, "1억7000원"},
		{60000007000, "600억7000원"},
		{123456789012, "1234억5678만9012원"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatWon(Won(tc.amount)), "amount %d", tc.amount)
	}
}

func TestDescribeLeftover(t *testing.T) {
	got := DescribeLeftover(Won(7000))
	assert.Contains(t, got, "7000원")
	assert.Contains(t, got, "대금 지급이 성공적으로 이뤄졌습니다")
}
