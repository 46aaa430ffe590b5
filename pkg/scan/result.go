// Package scan discovers bees status files in a directory and parses them
// into a snapshot per filesystem.
package scan

import (
	"sort"

	"github.com/google/uuid"

	"github.com/danpilch/bees-exporter/pkg/status"
)

// Skip records a status file that contributed nothing to a Result.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// FileResult is the outcome of scanning one status file: either a snapshot
// or a non-nil Err explaining why the file was skipped.
type FileResult struct {
	Path     string
	ID       uuid.UUID
	Snapshot *status.Snapshot
	Issues   []status.Issue
	Err      error
}

// Result is one collection cycle: the snapshots keyed by filesystem, and what
// was skipped or degraded along the way.
type Result struct {
	Snapshots map[uuid.UUID]*status.Snapshot
	Issues    map[uuid.UUID][]status.Issue
	Skips     []Skip
}

func newResult() *Result {
	return &Result{
		Snapshots: make(map[uuid.UUID]*status.Snapshot),
		Issues:    make(map[uuid.UUID][]status.Issue),
	}
}

func (r *Result) add(fr FileResult) {
	if fr.Err != nil {
		r.Skips = append(r.Skips, Skip{Path: fr.Path, Reason: fr.Err.Error(), Err: fr.Err})
		return
	}
	r.Snapshots[fr.ID] = fr.Snapshot
	if len(fr.Issues) > 0 {
		r.Issues[fr.ID] = fr.Issues
	} else {
		delete(r.Issues, fr.ID)
	}
}

// IDs returns the filesystem ids in the result in a stable order.
func (r *Result) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Snapshots))
	for id := range r.Snapshots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// Len returns the number of filesystems in the result.
func (r *Result) Len() int {
	return len(r.Snapshots)
}
