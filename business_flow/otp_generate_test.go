package businessflow

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Codes must be uniform over [100000, 999999] with both bounds reachable. For
// a bound of 900000 crypto/rand reads three bytes and masks the top byte down
// to four bits, so a fixed byte sequence pins the draw.
func TestGenerateOTPBounds(t *testing.T) {
	t.Run("SmallestDrawYieldsLowerBound", func(t *testing.T) {
		code, err := generateOTP(bytes.NewReader([]byte{0x00, 0x00, 0x00}))
		require.NoError(t, err)
		assert.Equal(t, "100000", code)
	})

	t.Run("LargestDrawYieldsUpperBound", func(t *testing.T) {
		// 0x0DBB9F == 899999, the largest accepted draw
		code, err := generateOTP(bytes.NewReader([]byte{0x0D, 0xBB, 0x9F}))
		require.NoError(t, err)
		assert.Equal(t, "999999", code)
	})

	t.Run("CodesStayInRange", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := GenerateOTP()
			require.NoError(t, err)
			require.Len(t, code, 6)

			value, err := strconv.Atoi(code)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, value, 100000)
			assert.LessOrEqual(t, value, 999999)
		}
	})
}
