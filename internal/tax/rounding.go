package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultStep is the granularity sales tax is rounded up to
var DefaultStep = decimal.RequireFromString("0.05")

// centPlaces is the number of fraction digits kept on monetary amounts
const centPlaces = 2

// RoundUp rounds amount up to the nearest multiple of step and quantizes the
// result to cents. The quotient is computed exactly, so amounts of any
// magnitude or precision round correctly.
func RoundUp(amount, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		panic(fmt.Sprintf("tax: rounding step must be positive, got %s", step))
	}

	// QuoRem truncates toward zero, which is already the ceiling for negatives
	quotient, remainder := amount.QuoRem(step, 0)
	if remainder.Sign() > 0 {
		quotient = quotient.Add(decimal.NewFromInt(1))
	}

	return quotient.Mul(step).RoundBank(centPlaces)
}

// RoundUpFloat is RoundUp for callers holding a float64. The float is
// converted through its shortest round-tripping decimal representation, not
// its exact binary value: 29.85 stays 29.85 instead of becoming
// 29.85000000000000142108547152020037174224853515625 and rounding to 29.90.
func RoundUpFloat(amount float64, step decimal.Decimal) decimal.Decimal {
	return RoundUp(decimal.NewFromFloat(amount), step)
}
