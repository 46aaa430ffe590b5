package status

import "strings"

// Parse runs the section state machine over the lines of a status file.
// It never fails: anything it cannot use is reported as an Issue and the
// rest of the file is still parsed. Timestamp is left for the caller.
func Parse(lines []string) (*Snapshot, []Issue) {
	snap := &Snapshot{Stats: make(map[string]float64)}
	var issues []Issue

	state := SectionNone
	for i := 0; i < len(lines); {
		line := lines[i]

		next, isMarker := Transition(state, line)
		state = next
		if isMarker && state == SectionProgress {
			rows, pos, rowIssues, err := ParseProgress(lines, i+1)
			issues = append(issues, rowIssues...)
			if err != nil {
				issues = append(issues, Issue{
					Line:     i + 1,
					Section:  SectionProgress,
					Severity: SeverityError,
					Reason:   err.Error(),
				})
				rows = nil
			}
			snap.Progress = rows
			i = pos
			continue
		}
		i++

		if isMarker || state != SectionTotal || strings.TrimSpace(line) == "" {
			continue
		}

		pairs, err := ParseTotalLine(line)
		if err != nil {
			issues = append(issues, Issue{
				Line:     i,
				Section:  SectionTotal,
				Severity: SeverityError,
				Reason:   err.Error(),
			})
			continue
		}
		for _, p := range pairs {
			snap.Stats[p.Name] = p.Value
		}
	}

	if len(snap.Stats) == 0 {
		issues = append(issues, Issue{Section: SectionTotal, Severity: SeverityWarning, Reason: "no metrics found"})
	}
	if len(snap.Progress) == 0 {
		issues = append(issues, Issue{Section: SectionProgress, Severity: SeverityWarning, Reason: "no PROGRESS data found"})
	}
	return snap, issues
}
