package numberutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_RoundPoints(t *testing.T) {
	require.Equal(t, "0.12345679",
		RoundPoints(decimal.RequireFromString("0.123456789")).String())
	require.Equal(t, "0.00000001",
		RoundPoints(decimal.RequireFromString("0.000000005")).String())
	require.Equal(t, "-0.00000001",
		RoundPoints(decimal.RequireFromString("-0.000000005")).String())
	require.Equal(t, "3",
		RoundPoints(decimal.NewFromInt(3)).String())
}

func Test_IsNegligible(t *testing.T) {
	require.True(t, IsNegligible(decimal.Zero))
	require.True(t, IsNegligible(decimal.RequireFromString("0.000000009")))
	require.False(t, IsNegligible(MinPoints))
	require.False(t, IsNegligible(decimal.NewFromInt(1)))
}
