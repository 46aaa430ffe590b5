package status

import "strings"

// Section is the state of the status file state machine.
type Section int

const (
	SectionNone Section = iota
	SectionTotal
	SectionRates
	SectionProgress
)

// String returns a human-readable representation of the section.
func (s Section) String() string {
	switch s {
	case SectionNone:
		return "none"
	case SectionTotal:
		return "TOTAL"
	case SectionRates:
		return "RATES"
	case SectionProgress:
		return "PROGRESS"
	default:
		return "unknown"
	}
}

// MarshalText lets sections appear by name in JSON reports.
func (s Section) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var sectionMarkers = []struct {
	prefix  string
	section Section
}{
	{"TOTAL:", SectionTotal},
	{"RATES:", SectionRates},
	{"PROGRESS:", SectionProgress},
}

// marker returns the section opened by line, if line is a section marker.
func marker(line string) (Section, bool) {
	for _, m := range sectionMarkers {
		if strings.HasPrefix(line, m.prefix) {
			return m.section, true
		}
	}
	return SectionNone, false
}

// Transition returns the state after reading line in state cur. The boolean
// is true when line was a section marker and carries no data of its own.
func Transition(cur Section, line string) (Section, bool) {
	if next, ok := marker(line); ok {
		return next, true
	}
	return cur, false
}
