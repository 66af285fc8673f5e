package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

func TestNormalizePrice(t *testing.T) {
	canonical := mustInt(t, "1800000000000000000000")

	tests := []struct {
		name     string
		raw      string
		decimals uint8
		want     string
	}{
		{"6 decimals", "1800000000", 6, canonical.String()},
		{"8 decimals", "180000000000", 8, canonical.String()},
		{"18 decimals", "1800000000000000000000", 18, canonical.String()},
		{"20 decimals truncate", "180000000000000000000099", 20, canonical.String()},
		{"0 decimals", "1800", 0, canonical.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := mustInt(t, tt.raw)
			got := NormalizePrice(raw, tt.decimals)
			assert.Equal(t, tt.want, got.String())
			// input is not modified
			assert.Equal(t, tt.raw, raw.String())
		})
	}
}

func TestBasisPointMath(t *testing.T) {
	assert.Equal(t, int64(50), MulBp(big.NewInt(10_000), 50).Int64())
	assert.Equal(t, int64(0), MulBp(big.NewInt(199), 50).Int64())
	assert.Equal(t, uint64(7500), RatioBp(big.NewInt(150), big.NewInt(200)))
	assert.Equal(t, uint64(0), RatioBp(big.NewInt(150), big.NewInt(0)))
	assert.Equal(t, uint64(0), RatioBp(nil, big.NewInt(10)))

	assert.NoError(t, ValidateBp("quorum_bp", 10_000))
	assert.ErrorIs(t, ValidateBp("quorum_bp", 10_001), ErrInvalidBasisPoints)
	assert.NoError(t, ValidateMultiplierBp("rate", 1))
	assert.ErrorIs(t, ValidateMultiplierBp("rate", 0), ErrInvalidBasisPoints)
	assert.ErrorIs(t, ValidateMultiplierBp("rate", MaxMultiplierBp+1), ErrInvalidBasisPoints)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in       string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{"1800.25", 18, "1800250000000000000000", false},
		{"1800", 8, "180000000000", false},
		{".5", 2, "50", false},
		{"0.000001", 6, "1", false},
		{"1.234", 2, "", true},
		{"abc", 18, "", true},
		{"1.2.3", 18, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimal(tt.in, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "1800.25", FormatDecimal(mustInt(t, "1800250000000000000000"), 18))
	assert.Equal(t, "158.4", FormatDecimal(mustInt(t, "158400000000000000000"), 18))
	assert.Equal(t, "0.000001", FormatDecimal(big.NewInt(1), 6))
	assert.Equal(t, "-1.5", FormatDecimal(big.NewInt(-15), 1))
	assert.Equal(t, "0", FormatDecimal(big.NewInt(0), 18))
	assert.Equal(t, "42", FormatDecimal(big.NewInt(42), 0))
	assert.Equal(t, "-", FormatDecimal(nil, 18))

	v := mustInt(t, "1800250000000000000000")
	parsed, err := ParseDecimal(FormatDecimal(v, 18), 18)
	require.NoError(t, err)
	assert.Equal(t, v.String(), parsed.String())
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("10000")
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), v.Int64())

	_, err = ParseAmount("10k")
	assert.Error(t, err)
}
