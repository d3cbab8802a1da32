package businessflow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSplit(t *testing.T) {
	t.Run("TypicalSplit", func(t *testing.T) {
		split, err := ComputeSplit(10000, 10)
		require.NoError(t, err)

		assert.Equal(t, uint64(10000), split.ItemTotal)
		assert.Equal(t, uint64(1000), split.Commission)
		assert.Equal(t, uint64(9000), split.VendorAmount)
	})

	t.Run("RoundingLandsInCommission", func(t *testing.T) {
		// 10% of 999 paise is 99.9, rounds up to 100
		split, err := ComputeSplit(999, 10)
		require.NoError(t, err)

		assert.Equal(t, uint64(100), split.Commission)
		assert.Equal(t, uint64(899), split.VendorAmount)
		assert.Equal(t, split.ItemTotal, split.Commission+split.VendorAmount)
	})

	t.Run("RoundsHalfUp", func(t *testing.T) {
		// 15% of 10 paise is 1.5, rounds to 2
		split, err := ComputeSplit(10, 15)
		require.NoError(t, err)

		assert.Equal(t, uint64(2), split.Commission)
		assert.Equal(t, uint64(8), split.VendorAmount)
	})

	t.Run("ZeroTotal", func(t *testing.T) {
		split, err := ComputeSplit(0, 10)
		require.NoError(t, err)

		assert.Equal(t, uint64(0), split.Commission)
		assert.Equal(t, uint64(0), split.VendorAmount)
	})

	t.Run("ZeroPercent", func(t *testing.T) {
		split, err := ComputeSplit(12345, 0)
		require.NoError(t, err)

		assert.Equal(t, uint64(0), split.Commission)
		assert.Equal(t, uint64(12345), split.VendorAmount)
	})

	t.Run("FullPercent", func(t *testing.T) {
		split, err := ComputeSplit(12345, 100)
		require.NoError(t, err)

		assert.Equal(t, uint64(12345), split.Commission)
		assert.Equal(t, uint64(0), split.VendorAmount)
	})

	t.Run("LargeTotalStaysExact", func(t *testing.T) {
		// total*percent would overflow uint64 here; the split must still be
		// the exact rounded product
		split, err := ComputeSplit(3000000000000000000, 10)
		require.NoError(t, err)

		assert.Equal(t, uint64(300000000000000000), split.Commission)
		assert.Equal(t, uint64(2700000000000000000), split.VendorAmount)

		split, err = ComputeSplit(3000000000000000000, 100)
		require.NoError(t, err)

		assert.Equal(t, uint64(3000000000000000000), split.Commission)
		assert.Equal(t, uint64(0), split.VendorAmount)
	})

	t.Run("NegativeTotalRejected", func(t *testing.T) {
		_, err := ComputeSplit(-1, 10)
		require.Error(t, err)
		assert.True(t, IsInvalidAmount(err))
	})
}

// The split must be exact for every input: no paise created or destroyed, and
// the commission never exceeds the total.
func TestComputeSplitConservation(t *testing.T) {
	totals := []int64{0, 1, 2, 3, 49, 50, 51, 99, 100, 101, 999, 1000, 9999, 10001, 123456789, 1<<40 + 7, 1<<62 + 3, math.MaxInt64}
	percents := []int{0, 1, 3, 7, 10, 15, 33, 50, 99, 100}

	for _, total := range totals {
		for _, percent := range percents {
			split, err := ComputeSplit(total, percent)
			require.NoError(t, err)

			assert.Equal(t, uint64(total), split.Commission+split.VendorAmount,
				"conservation violated for total=%d percent=%d", total, percent)
			assert.LessOrEqual(t, split.Commission, uint64(total),
				"commission exceeds total for total=%d percent=%d", total, percent)
		}
	}
}

// Same input must always produce the same split
func TestComputeSplitDeterministic(t *testing.T) {
	first, err := ComputeSplit(98765, 13)
	require.NoError(t, err)

	for range 10 {
		again, err := ComputeSplit(98765, 13)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
