package crypto

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// RandRange returns a uniform random value in [a, b). It panics if got a
// non-positive parameter or a>=b.
func RandRange(a, b int) int {
	return RandIntn(b-a) + a
}

// RandDecimal returns a uniform random value in [min, max] on the 1e-8
// grid. It returns min if max is not greater than min.
func RandDecimal(min, max decimal.Decimal) decimal.Decimal {
	span := max.Sub(min).Shift(8).Floor().BigInt()
	if span.Sign() <= 0 {
		return min
	}

	r, err := rand.Int(rand.Reader, new(big.Int).Add(span, big.NewInt(1)))
	if err != nil {
		panic(err)
	}

	return min.Add(decimal.NewFromBigInt(r, -8))
}

// RandDuration returns a uniform random duration in [min, max] with one
// second granularity. It returns min if max is not greater than min.
func RandDuration(min, max time.Duration) time.Duration {
	steps := int((max - min) / time.Second)
	if steps <= 0 {
		return min
	}

	return min + time.Duration(RandIntn(steps+1))*time.Second
}
