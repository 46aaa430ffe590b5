package output

import (
	"github.com/danpilch/bees-exporter/pkg/sanity"
	"github.com/danpilch/bees-exporter/pkg/scan"
	"github.com/danpilch/bees-exporter/pkg/status"
)

// Status is the overall verdict for one status file.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusSkipped Status = "skipped"
)

// Exit codes of the check command.
const (
	ExitClean = iota
	ExitWarnings
	ExitSkipped
	ExitNoFilesystems
	ExitFailure
)

// Filesystem summarizes the snapshot of one filesystem.
type Filesystem struct {
	UUID      string               `json:"uuid"`
	Status    Status               `json:"status"`
	Timestamp int64                `json:"timestamp"`
	Stats     int                  `json:"stats"`
	Progress  []status.ProgressRow `json:"progress"`
	Issues    []status.Issue       `json:"issues,omitempty"`
	Sanity    []sanity.Result      `json:"sanity,omitempty"`
}

// Errors counts issues of error severity.
func (f Filesystem) Errors() int {
	return f.count(status.SeverityError)
}

// Warnings counts issues of warning severity.
func (f Filesystem) Warnings() int {
	return f.count(status.SeverityWarning)
}

func (f Filesystem) count(sev status.Severity) int {
	n := 0
	for _, issue := range f.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// Summary aggregates a report.
type Summary struct {
	Filesystems  int `json:"filesystems"`
	Skipped      int `json:"skipped"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	SanityFailed int `json:"sanity_failed"`
}

// Report is the result of a one-shot scan, ready for rendering.
type Report struct {
	Dir         string       `json:"dir"`
	Filesystems []Filesystem `json:"filesystems"`
	Skips       []scan.Skip  `json:"skipped"`
	Summary     Summary      `json:"summary"`
}

// NewReport builds a report from a scan result. Filesystems are ordered by
// uuid.
func NewReport(dir string, res *scan.Result) *Report {
	r := &Report{
		Dir:         dir,
		Filesystems: []Filesystem{},
		Skips:       res.Skips,
	}
	if r.Skips == nil {
		r.Skips = []scan.Skip{}
	}

	for _, id := range res.IDs() {
		snap := res.Snapshots[id]
		fs := Filesystem{
			UUID:      id.String(),
			Status:    StatusOK,
			Timestamp: snap.Timestamp,
			Stats:     len(snap.Stats),
			Progress:  snap.Progress,
			Issues:    res.Issues[id],
			Sanity:    sanity.Failed(sanity.Check(snap)),
		}
		if fs.Progress == nil {
			fs.Progress = []status.ProgressRow{}
		}
		if fs.Errors() > 0 || fs.Warnings() > 0 || len(fs.Sanity) > 0 {
			fs.Status = StatusWarning
		}

		r.Summary.Errors += fs.Errors()
		r.Summary.Warnings += fs.Warnings()
		r.Summary.SanityFailed += len(fs.Sanity)
		r.Filesystems = append(r.Filesystems, fs)
	}
	r.Summary.Filesystems = len(r.Filesystems)
	r.Summary.Skipped = len(r.Skips)

	return r
}

// ExitCode maps the report to the check command's exit status. The most
// severe condition wins.
func (r *Report) ExitCode() int {
	s := r.Summary
	switch {
	case s.Filesystems == 0:
		return ExitNoFilesystems
	case s.Skipped > 0:
		return ExitSkipped
	case s.Errors > 0 || s.Warnings > 0 || s.SanityFailed > 0:
		return ExitWarnings
	default:
		return ExitClean
	}
}
