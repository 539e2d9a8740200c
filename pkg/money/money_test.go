package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/prestasur/loan-service/pkg/money"
)

func TestRound2_PinsHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"12.125", "12.13"},
		{"0.999", "1.00"},
		{"100.00", "100.00"},
	}
	for _, c := range cases {
		got := money.Round2(decimal.RequireFromString(c.in))
		assert.Equal(t, c.want, got.StringFixed(2), "rounding %s", c.in)
	}
}

func TestWithinEpsilon(t *testing.T) {
	a := decimal.RequireFromString("112.00")

	assert.True(t, money.WithinEpsilon(a, decimal.RequireFromString("112.00")))
	assert.True(t, money.WithinEpsilon(a, decimal.RequireFromString("112.01")))
	assert.True(t, money.WithinEpsilon(a, decimal.RequireFromString("111.99")))
	assert.False(t, money.WithinEpsilon(a, decimal.RequireFromString("112.02")))
	assert.False(t, money.WithinEpsilon(a, decimal.RequireFromString("100.00")))
}

func TestClampDust(t *testing.T) {
	assert.True(t, money.ClampDust(decimal.RequireFromString("0.009")).IsZero())
	assert.True(t, money.ClampDust(decimal.RequireFromString("0.0001")).IsZero())
	assert.Equal(t, "0.01", money.ClampDust(decimal.RequireFromString("0.01")).StringFixed(2))
	assert.Equal(t, "5.00", money.ClampDust(decimal.RequireFromString("5.00")).StringFixed(2))
}

func TestSum(t *testing.T) {
	got := money.Sum(
		decimal.RequireFromString("100.00"),
		decimal.RequireFromString("12.50"),
		decimal.RequireFromString("0.01"),
	)
	assert.Equal(t, "112.51", got.StringFixed(2))
	assert.True(t, money.Sum().IsZero())
}
