package numberutil

import "github.com/shopspring/decimal"

// PointScale is the number of fractional digits every persisted point
// quantity carries.
const PointScale = 8

// MinPoints is the smallest representable point quantity (1e-8). Balances
// below it are treated as empty.
var MinPoints = decimal.New(1, -PointScale)

// RoundPoints rounds to the point scale with ties going away from zero.
func RoundPoints(d decimal.Decimal) decimal.Decimal {
	return d.Round(PointScale)
}

// IsNegligible reports whether d is too small to be a spendable balance.
func IsNegligible(d decimal.Decimal) bool {
	return d.LessThan(MinPoints)
}
