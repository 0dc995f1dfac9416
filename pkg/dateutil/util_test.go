package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_NextDay(t *testing.T) {
	now := time.Date(2023, 5, 17, 13, 45, 12, 999, time.UTC)
	require.Equal(t, time.Date(2023, 5, 18, 0, 0, 0, 0, time.UTC), NextDay(now))

	// Month boundary.
	eom := time.Date(2023, 5, 31, 23, 59, 59, 0, time.UTC)
	require.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), NextDay(eom))
}

func Test_BeginningOfDay(t *testing.T) {
	now := time.Date(2023, 5, 17, 13, 45, 12, 999, time.UTC)
	require.Equal(t, time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC), BeginningOfDay(now))
}
