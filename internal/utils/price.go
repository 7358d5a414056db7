package utils

import (
	"github.com/shopspring/decimal"
)

// pricePrecision is the number of decimal places kept before rounding a price to a tick.
// It absorbs float noise such as 97.99999999999999 so it rounds as 98.
const pricePrecision = 6

// RoundBuyPrice rounds a buy quote up to a whole tick.
func RoundBuyPrice(price float64) int {
	return int(decimal.NewFromFloat(price).Round(pricePrecision).Ceil().IntPart())
}

// RoundSellPrice rounds a sell quote down to a whole tick.
func RoundSellPrice(price float64) int {
	return int(decimal.NewFromFloat(price).Round(pricePrecision).Floor().IntPart())
}

// RoundToDecimalPrecision truncates value to the given number of decimal places.
func RoundToDecimalPrecision(value float64, decimalPrecision int32) float64 {
	return decimal.NewFromFloat(value).Truncate(decimalPrecision).InexactFloat64()
}

// ClampQuantity limits a requested magnitude to the available capacity. The result is never negative.
func ClampQuantity(requested, capacity int) int {
	if requested < 0 {
		requested = -requested
	}

	return max(0, min(requested, capacity))
}
