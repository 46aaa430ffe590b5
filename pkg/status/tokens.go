package status

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoTokens is returned for a TOTAL line without a single name=value token.
var ErrNoTokens = errors.New("no name=value tokens")

var tokenPattern = regexp.MustCompile(`([A-Za-z0-9_]+)=([0-9]+)`)

// Pair is one name=value token of a TOTAL line.
type Pair struct {
	Name  string
	Value float64
}

// ParseTotalLine extracts the name=value tokens of a TOTAL line. Tokens that
// do not match are ignored; the line fails only when none match.
func ParseTotalLine(line string) ([]Pair, error) {
	var pairs []Pair
	for _, word := range strings.Fields(line) {
		m := tokenPattern.FindStringSubmatch(word)
		if m == nil {
			continue
		}
		v, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			continue
		}
		pairs = append(pairs, Pair{Name: m[1], Value: float64(v)})
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoTokens, line)
	}
	return pairs, nil
}
