package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice turns caller price input into integer currency subunits.
// A decimal literal ("15.00", "19.99") is read as major units and scaled
// by 100, truncating anything past two places. An integer literal ("1500")
// is already in subunits.
func ParsePrice(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: price is required", ErrInvalidArgument)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac, isDecimal := strings.Cut(s, ".")
	if !isDecimal {
		v, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: price %q", ErrInvalidArgument, raw)
		}
		return v, nil
	}

	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q", ErrInvalidArgument, raw)
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: price %q", ErrInvalidArgument, raw)
		}
	}
	frac = (frac + "00")[:2]
	cents, _ := strconv.ParseInt(frac, 10, 64)
	if units > (math.MaxInt64-cents)/100 {
		return 0, fmt.Errorf("%w: price %q is out of range", ErrInvalidArgument, raw)
	}
	return units*100 + cents, nil
}
