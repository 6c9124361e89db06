package output_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigcoin/cryptonotewallet/internal/output"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", output.FormatAmount(0))
	assert.Equal(t, "0.0000001", output.FormatAmount(10))
	assert.Equal(t, "1.5", output.FormatAmount(150_000_000))
	assert.Equal(t, "12", output.FormatAmount(1_200_000_000))
	assert.Equal(t, "+0.00000001", output.FormatSigned(1))
	assert.Equal(t, "-2", output.FormatSigned(-200_000_000))
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want uint64
	}{
		{"1", 100_000_000},
		{"1.5", 150_000_000},
		{".5", 50_000_000},
		{"0.00000001", 1},
		{" 3. ", 300_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := output.ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if got > 0 {
				back, err := output.ParseAmount(output.FormatAmount(got))
				require.NoError(t, err)
				assert.Equal(t, got, back)
			}
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", ".", "-1", "+1", "1.123456789", "abc", "1.2.3", "1e5", "184467440738"} {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			_, err := output.ParseAmount(in)
			require.ErrorIs(t, err, cnerr.ErrInvalidInput)
		})
	}

	// The largest representable whole amount still parses.
	_, err := output.ParseAmount("184467440737")
	require.NoError(t, err)
	assert.Less(t, uint64(184467440737*100_000_000), uint64(math.MaxUint64))
}
