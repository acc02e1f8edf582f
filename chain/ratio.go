package chain

import (
	"fmt"
	mathbits "math/bits"
	"strconv"
	"strings"
)

// Ratio is an exact non-negative rational number. Consensus thresholds and
// slot ratios are kept as numerator/denominator rather than floats so that
// every node derives identical fee and threshold arithmetic.
//
// A Ratio is always stored reduced, so equal values have equal
// representations and a single canonical binary encoding.
type Ratio struct {
	Num uint64
	Den uint64
}

// RatioZero and RatioOne are the bounds used by consensus validation.
var (
	RatioZero = Ratio{Num: 0, Den: 1}
	RatioOne  = Ratio{Num: 1, Den: 1}
)

// ParseRatio reads a decimal fraction such as "0.220" or "1" into an exact
// rational. Values outside [0,1] fail with ErrOutOfRange; a leading sign or
// non-decimal text fails with ErrInvalidEncoding.
func ParseRatio(s string) (Ratio, error) {
	if s == "" || strings.ContainsAny(s, "+-") {
		return Ratio{}, fmt.Errorf("ratio %q: %w", s, ErrInvalidEncoding)
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		if fracPart == "" {
			return Ratio{}, fmt.Errorf("ratio %q: %w", s, ErrInvalidEncoding)
		}
	}
	if intPart == "" {
		intPart = "0"
	}

	whole, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("ratio %q: %w", s, ErrInvalidEncoding)
	}

	den := uint64(1)
	frac := uint64(0)
	if fracPart != "" {
		// Cap the scale so den never overflows; 18 digits fit in a uint64.
		if len(fracPart) > 18 {
			return Ratio{}, fmt.Errorf("ratio %q: %w", s, ErrInvalidEncoding)
		}
		frac, err = strconv.ParseUint(fracPart, 10, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("ratio %q: %w", s, ErrInvalidEncoding)
		}
		for range fracPart {
			den *= 10
		}
	}

	// num = whole*den + frac, which cannot wrap: whole must be 0 or 1 for
	// the value to pass the range check below, so reject early.
	if whole > 1 || (whole == 1 && frac > 0) {
		return Ratio{}, fmt.Errorf("ratio %q: %w", s, ErrOutOfRange)
	}
	num := whole*den + frac
	if num > den {
		return Ratio{}, fmt.Errorf("ratio %q: %w", s, ErrOutOfRange)
	}

	return NewRatio(num, den), nil
}

// NewRatio builds a reduced ratio from num/den. A zero denominator is
// normalized to 1 with a zero numerator.
func NewRatio(num, den uint64) Ratio {
	if den == 0 {
		return RatioZero
	}
	g := gcd(num, den)
	return Ratio{Num: num / g, Den: den / g}
}

// IsZero reports whether the ratio equals 0.
func (r Ratio) IsZero() bool {
	return r.Num == 0
}

// Cmp compares r against other, returning -1, 0 or 1. The comparison
// cross-multiplies in 128 bits, so it is exact for any uint64 components.
func (r Ratio) Cmp(other Ratio) int {
	lhsHi, lhsLo := mathbits.Mul64(r.Num, other.Den)
	rhsHi, rhsLo := mathbits.Mul64(other.Num, r.Den)
	switch {
	case lhsHi != rhsHi:
		if lhsHi < rhsHi {
			return -1
		}
		return 1
	case lhsLo != rhsLo:
		if lhsLo < rhsLo {
			return -1
		}
		return 1
	}
	return 0
}

// String returns the ratio as "num/den".
func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Decimal returns the exact decimal spelling accepted by ParseRatio, such as
// "0.22". Any ratio parsed from a decimal keeps a denominator dividing a
// power of ten; for other denominators Decimal falls back to "num/den".
func (r Ratio) Decimal() string {
	if r.Num == 0 {
		return "0"
	}
	if r.Num == r.Den {
		return "1"
	}
	scale := uint64(1)
	for digits := 1; digits <= 18; digits++ {
		scale *= 10
		if scale%r.Den != 0 {
			continue
		}
		frac := strconv.FormatUint(r.Num*(scale/r.Den), 10)
		return "0." + strings.Repeat("0", digits-len(frac)) + frac
	}
	return r.String()
}

func gcd(a, b uint64) uint64 {
	if a == 0 {
		return b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
