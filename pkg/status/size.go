package status

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// sizeNumber is the decimal notation bees writes before the suffix.
var sizeNumber = regexp.MustCompile(`^[0-9]*\.?[0-9]+([eE][+-]?[0-9]+)?$`)

var (
	ErrEmptySize     = errors.New("empty size")
	ErrUnknownSuffix = errors.New("unknown size suffix")
	ErrInvalidSize   = errors.New("invalid size")
)

// ParseSize converts a bees size string such as "512K" or "21.387G" into
// bytes. The suffix is required and is a power of 1024.
func ParseSize(s string) (uint64, error) {
	if s == "" {
		return 0, ErrEmptySize
	}

	var multiplier float64
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1 << 10
	case 'M':
		multiplier = 1 << 20
	case 'G':
		multiplier = 1 << 30
	case 'T':
		multiplier = 1 << 40
	default:
		return 0, fmt.Errorf("%w in %q", ErrUnknownSuffix, s)
	}

	number := s[:len(s)-1]
	if !sizeNumber.MatchString(number) {
		return 0, fmt.Errorf("%w %q: not a decimal number", ErrInvalidSize, s)
	}
	n, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidSize, s, err)
	}
	bytes := math.Round(n * multiplier)
	if math.IsNaN(bytes) || bytes < 0 || bytes >= math.MaxUint64 {
		return 0, fmt.Errorf("%w %q: out of range", ErrInvalidSize, s)
	}
	return uint64(bytes), nil
}
