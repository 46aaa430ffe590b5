package status

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	headerPrefix    = "extsz"
	separatorPrefix = "-----"
	totalRow        = "total"
	pointIdle       = "idle"

	minProgressFields = 5
)

var (
	ErrMissingHeader    = errors.New("missing PROGRESS header")
	ErrMissingSeparator = errors.New("missing PROGRESS separator")
	ErrUnknownExtent    = errors.New("unknown extent size")
	ErrInvalidField     = errors.New("invalid PROGRESS field")
)

// ParseProgress parses the PROGRESS table whose header starts at lines[start].
// It returns the rows read, the index of the first line it did not consume
// and the rows it dropped as issues. The table ends at a "total" row, at the
// next section marker or at the end of input. A missing header or separator
// is an error and yields no rows.
func ParseProgress(lines []string, start int) ([]ProgressRow, int, []Issue, error) {
	if start >= len(lines) {
		return nil, start, nil, ErrMissingHeader
	}
	if !strings.HasPrefix(lines[start], headerPrefix) {
		return nil, start, nil, fmt.Errorf("%w: line %d starts with %q", ErrMissingHeader, start+1, firstField(lines[start]))
	}
	sep := start + 1
	if sep >= len(lines) {
		return nil, sep, nil, ErrMissingSeparator
	}
	if !strings.HasPrefix(lines[sep], separatorPrefix) {
		return nil, sep, nil, fmt.Errorf("%w: line %d", ErrMissingSeparator, sep+1)
	}

	var (
		rows   []ProgressRow
		issues []Issue
	)
	for i := sep + 1; i < len(lines); i++ {
		if _, ok := marker(lines[i]); ok {
			return rows, i, issues, nil
		}

		fields := strings.Fields(lines[i])
		if len(fields) < minProgressFields {
			continue
		}
		if fields[0] == totalRow {
			return rows, i + 1, issues, nil
		}

		row, err := parseProgressRow(fields)
		if err != nil {
			issues = append(issues, Issue{
				Line:     i + 1,
				Section:  SectionProgress,
				Severity: SeverityError,
				Reason:   err.Error(),
			})
			continue
		}
		rows = append(rows, row)
	}
	return rows, len(lines), issues, nil
}

func parseProgressRow(fields []string) (ProgressRow, error) {
	extsz, ok := ParseExtentSize(fields[0])
	if !ok {
		return ProgressRow{}, fmt.Errorf("%w %q", ErrUnknownExtent, fields[0])
	}

	datasz, err := ParseSize(fields[1])
	if err != nil {
		return ProgressRow{}, fmt.Errorf("datasz: %w", err)
	}

	point := IdlePoint()
	if fields[2] != pointIdle {
		offset, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return ProgressRow{}, fmt.Errorf("%w point %q", ErrInvalidField, fields[2])
		}
		point = OffsetPoint(offset)
	}

	genMin, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return ProgressRow{}, fmt.Errorf("%w gen_min %q", ErrInvalidField, fields[3])
	}
	genMax, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return ProgressRow{}, fmt.Errorf("%w gen_max %q", ErrInvalidField, fields[4])
	}

	return ProgressRow{
		ExtentSize: extsz,
		DataSize:   datasz,
		Point:      point,
		GenMin:     genMin,
		GenMax:     genMax,
	}, nil
}

func firstField(line string) string {
	if fields := strings.Fields(line); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
