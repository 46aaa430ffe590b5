package sanity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danpilch/bees-exporter/pkg/status"
)

func TestCheck(t *testing.T) {
	tests := map[string]struct {
		snap       *status.Snapshot
		wantLen    int
		wantFailed []string
	}{
		"healthy": {
			snap: &status.Snapshot{
				Progress: []status.ProgressRow{
					{ExtentSize: status.ExtentMax, Point: status.IdlePoint(), GenMin: 1, GenMax: 2},
					{ExtentSize: status.Extent32M, Point: status.OffsetPoint(5), GenMin: 2, GenMax: 2},
				},
			},
			wantLen: 2,
		},
		"no progress": {
			snap:    &status.Snapshot{Stats: map[string]float64{"crawl_done": 5}},
			wantLen: 0,
		},
		"inverted generations": {
			snap: &status.Snapshot{
				Progress: []status.ProgressRow{
					{ExtentSize: status.Extent128K, GenMin: 5, GenMax: 3},
				},
			},
			wantLen:    1,
			wantFailed: []string{"128K generations"},
		},
		"duplicate bucket": {
			snap: &status.Snapshot{
				Progress: []status.ProgressRow{
					{ExtentSize: status.Extent8M, GenMin: 1, GenMax: 2},
					{ExtentSize: status.Extent8M, GenMin: 1, GenMax: 2},
				},
			},
			wantLen:    3,
			wantFailed: []string{"8M unique"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			results := Check(test.snap)
			assert.Len(t, results, test.wantLen)

			var failed []string
			for _, r := range Failed(results) {
				failed = append(failed, r.Check)
			}
			assert.Equal(t, test.wantFailed, failed)
		})
	}
}
