package utils

import "github.com/shopspring/decimal"

// Round rounds a number to 2 decimal places, halves away from zero
func Round(num float64) float64 {
	rounded, _ := decimal.NewFromFloat(num).Round(MoneyPlaces).Float64()
	return rounded
}

// AmountString renders an amount in its shortest decimal form ("100", "12.5")
func AmountString(num float64) string {
	return decimal.NewFromFloat(num).String()
}

// Sum adds amounts without accumulating binary rounding noise
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(decimal.NewFromFloat(amount))
	}
	f, _ := total.Float64()
	return f
}
