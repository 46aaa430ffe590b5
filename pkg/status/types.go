// Package status parses the per-filesystem status files written by the bees
// deduplication daemon into snapshots of counters and scan progress.
package status

import (
	"encoding/json"
	"sort"
	"strconv"
)

// ExtentSize is the extent-size bucket of a PROGRESS row.
type ExtentSize string

const (
	ExtentMax  ExtentSize = "max"
	Extent32M  ExtentSize = "32M"
	Extent8M   ExtentSize = "8M"
	Extent2M   ExtentSize = "2M"
	Extent512K ExtentSize = "512K"
	Extent128K ExtentSize = "128K"
)

// ExtentSizes lists the buckets bees reports, largest first.
var ExtentSizes = []ExtentSize{ExtentMax, Extent32M, Extent8M, Extent2M, Extent512K, Extent128K}

// ParseExtentSize reports whether s names a known bucket.
func ParseExtentSize(s string) (ExtentSize, bool) {
	for _, e := range ExtentSizes {
		if string(e) == s {
			return e, true
		}
	}
	return "", false
}

// Point is the scan position of a PROGRESS row: either an offset or idle.
type Point struct {
	Idle   bool
	Offset uint64
}

// IdlePoint returns the idle sentinel.
func IdlePoint() Point {
	return Point{Idle: true}
}

// OffsetPoint returns a numeric scan point.
func OffsetPoint(offset uint64) Point {
	return Point{Offset: offset}
}

// String renders the point the way bees writes it.
func (p Point) String() string {
	if p.Idle {
		return pointIdle
	}
	return strconv.FormatUint(p.Offset, 10)
}

// MarshalJSON encodes idle as the string "idle" and offsets as numbers.
func (p Point) MarshalJSON() ([]byte, error) {
	if p.Idle {
		return json.Marshal(pointIdle)
	}
	return json.Marshal(p.Offset)
}

// ProgressRow is one data row of the PROGRESS table.
type ProgressRow struct {
	ExtentSize ExtentSize `json:"extent_size"`
	DataSize   uint64     `json:"datasz"`
	Point      Point      `json:"point"`
	GenMin     uint64     `json:"gen_min"`
	GenMax     uint64     `json:"gen_max"`
}

// Snapshot is everything parsed from one status file.
type Snapshot struct {
	Stats    map[string]float64 `json:"stats"`
	Progress []ProgressRow      `json:"progress"`
	// Timestamp is the file modification time in seconds since the epoch.
	Timestamp int64 `json:"timestamp"`
}

// StatNames returns the stat names in lexicographic order.
func (s *Snapshot) StatNames() []string {
	names := make([]string, 0, len(s.Stats))
	for name := range s.Stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Severity grades an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityDebug   Severity = "debug"
)

// Issue describes a line, row or section that was skipped or looked wrong.
// Line is 1-based; zero means the issue concerns the whole file.
type Issue struct {
	Line     int      `json:"line,omitempty"`
	Section  Section  `json:"section"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}
