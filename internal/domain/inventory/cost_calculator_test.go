package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMovingAverageCost(t *testing.T) {
	cases := []struct {
		name                         string
		onHand, cost, qty, entryCost string
		want                         string
	}{
		{"primera entrada", "0", "0", "10", "20", "20"},
		{"promedio ponderado", "10", "20", "10", "30", "25"},
		{"decimales", "3", "10", "1", "11", "10.25"},
		{"redondeo a 6", "3", "1", "0", "0", "1"},
		{"total cero usa costo de entrada", "-5", "10", "5", "12", "12"},
		{"existencias negativas", "-2", "10", "5", "20", "26.666667"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MovingAverageCost(d(c.onHand), d(c.cost), d(c.qty), d(c.entryCost))
			assert.True(t, got.Equal(d(c.want)), "got %s want %s", got, c.want)
		})
	}
}

func TestExtendedCost_RedondeaMoneda(t *testing.T) {
	assert.True(t, ExtendedCost(d("-3"), d("10.3333335")).Equal(d("31")))
	assert.True(t, ExtendedCost(d("5"), d("60")).Equal(d("300")))
}

func TestReservedRelease(t *testing.T) {
	assert.True(t, ReservedRelease(d("5"), d("3")).Equal(d("3")))
	assert.True(t, ReservedRelease(d("2"), d("3")).Equal(d("2")))
	assert.True(t, ReservedRelease(d("2"), d("0")).IsZero())
	assert.True(t, ReservedRelease(d("0"), d("3")).IsZero())
}

func TestCanIssue(t *testing.T) {
	assert.True(t, CanIssue(d("5"), d("5"), false))
	assert.False(t, CanIssue(d("4"), d("5"), false))
	assert.True(t, CanIssue(d("4"), d("5"), true))
}

func TestFitsScale(t *testing.T) {
	assert.True(t, FitsScale(d("10.5"), MoneyScale))
	assert.True(t, FitsScale(d("10.500"), MoneyScale))
	assert.True(t, FitsScale(d("-3.25"), MoneyScale))
	assert.False(t, FitsScale(d("10.005"), MoneyScale))
	assert.False(t, FitsScale(d("10.004"), MoneyScale))
	assert.True(t, FitsScale(d("1.2345"), QuantityScale))
	assert.False(t, FitsScale(d("1.23451"), QuantityScale))
}
