package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

const (
	// CanonicalDecimals is the number of fractional digits every price is
	// normalized to.
	CanonicalDecimals = 18

	// BasisPoints is the denominator of every rate and threshold
	BasisPoints = 10_000

	// MaxMultiplierBp bounds multiplier rates (5x)
	MaxMultiplierBp = 50_000

	// MaxFeedDecimals is the largest source precision accepted at registration
	MaxFeedDecimals = 36
)

var bpDenominator = big.NewInt(BasisPoints)

// Pow10 returns 10^n as a new big.Int
func Pow10(n uint) *big.Int {
	return math.BigPow(10, int64(n))
}

// CanonicalUnit is one whole unit at canonical precision
func CanonicalUnit() *big.Int {
	return Pow10(CanonicalDecimals)
}

// NormalizePrice converts a raw feed answer with the given decimals to
// canonical precision. Scaling up is exact; scaling down truncates toward zero.
func NormalizePrice(raw *big.Int, decimals uint8) *big.Int {
	out := new(big.Int).Set(raw)
	switch {
	case decimals < CanonicalDecimals:
		out.Mul(out, Pow10(uint(CanonicalDecimals-decimals)))
	case decimals > CanonicalDecimals:
		out.Quo(out, Pow10(uint(decimals-CanonicalDecimals)))
	}
	return out
}

// MulBp returns x * bp / 10000
func MulBp(x *big.Int, bp uint64) *big.Int {
	out := new(big.Int).Mul(x, new(big.Int).SetUint64(bp))
	return out.Quo(out, bpDenominator)
}

// RatioBp returns num * 10000 / den, or 0 when den is zero
func RatioBp(num, den *big.Int) uint64 {
	if den == nil || den.Sign() == 0 || num == nil {
		return 0
	}
	out := new(big.Int).Mul(num, bpDenominator)
	out.Quo(out, den)
	if !out.IsUint64() {
		return ^uint64(0)
	}
	return out.Uint64()
}

// ValidateBp checks that v is a basis-point value in [0, 10000]
func ValidateBp(name string, v uint64) error {
	if v > BasisPoints {
		return fmt.Errorf("%w: %s=%d exceeds %d", ErrInvalidBasisPoints, name, v, BasisPoints)
	}
	return nil
}

// ValidateMultiplierBp checks that v is a multiplier in [1, MaxMultiplierBp]
func ValidateMultiplierBp(name string, v uint64) error {
	if v == 0 || v > MaxMultiplierBp {
		return fmt.Errorf("%w: %s=%d must be in [1, %d]", ErrInvalidBasisPoints, name, v, MaxMultiplierBp)
	}
	return nil
}

// ParseAmount parses a base-10 integer amount
func ParseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// ParseDecimal parses a decimal string such as "1800.25" into an integer
// scaled by 10^decimals. Extra fractional digits are rejected.
func ParseDecimal(s string, decimals uint8) (*big.Int, error) {
	whole, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			whole, frac = s[:i], s[i+1:]
			break
		}
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("invalid decimal %q: more than %d fractional digits", s, decimals)
	}
	for len(frac) < int(decimals) {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal %q", s)
	}
	return v, nil
}

// FormatDecimal renders v scaled by 10^decimals, trimming trailing zeros
func FormatDecimal(v *big.Int, decimals uint8) string {
	if v == nil {
		return "-"
	}
	neg := v.Sign() < 0
	digits := new(big.Int).Abs(v).String()
	for len(digits) <= int(decimals) {
		digits = "0" + digits
	}
	whole, frac := digits[:len(digits)-int(decimals)], digits[len(digits)-int(decimals):]
	for len(frac) > 0 && frac[len(frac)-1] == '0' {
		frac = frac[:len(frac)-1]
	}
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
