// Package metrics reshapes scan results into Prometheus metric families.
package metrics

import (
	"sort"
	"strings"

	"github.com/danpilch/bees-exporter/pkg/scan"
	"github.com/danpilch/bees-exporter/pkg/status"
)

const namespace = "bees"

// Label names.
const (
	LabelUUID       = "uuid"
	LabelExtentSize = "extent_size"
)

// Progress family names.
const (
	ProgressDataSize  = namespace + "_progress_summary_datasz_bytes"
	ProgressPoint     = namespace + "_progress_summary_point"
	ProgressPointIdle = namespace + "_progress_summary_point_idle"
	ProgressGenMin    = namespace + "_progress_summary_gen_min"
	ProgressGenMax    = namespace + "_progress_summary_gen_max"
)

// Kind is the Prometheus type of a family.
type Kind int

const (
	KindCounter Kind = iota
	KindGauge
)

// Sample is one labelled value. LabelValues follow Family.LabelNames.
type Sample struct {
	LabelValues []string
	Value       float64
	// Timestamp is the modification time of the source file, in seconds.
	Timestamp int64
}

// Family is a named series with all of its samples.
type Family struct {
	Name       string
	Help       string
	Kind       Kind
	LabelNames []string
	Samples    []Sample
}

// StatName returns the counter name for a TOTAL stat.
func StatName(stat string) string {
	return namespace + "_" + strings.ToLower(stat)
}

var progressFamilies = []struct {
	name string
	help string
}{
	{ProgressDataSize, "Bees progress summary datasz in bytes"},
	{ProgressPoint, "Bees progress summary"},
	{ProgressPointIdle, "Bees progress summary idle"},
	{ProgressGenMin, "Bees progress summary gen_min"},
	{ProgressGenMax, "Bees progress summary gen_max"},
}

// Project turns a scan result into metric families: one counter per distinct
// TOTAL stat labelled by uuid, and five progress gauges labelled by uuid and
// extent size. Families without samples are left out. Output is sorted by
// family name, then by uuid.
func Project(res *scan.Result) []Family {
	counters := make(map[string]*Family)
	progress := make(map[string]*Family, len(progressFamilies))
	for _, pf := range progressFamilies {
		progress[pf.name] = &Family{
			Name:       pf.name,
			Help:       pf.help,
			Kind:       KindGauge,
			LabelNames: []string{LabelUUID, LabelExtentSize},
		}
	}

	for _, id := range res.IDs() {
		snap := res.Snapshots[id]
		uuid := id.String()

		seen := make(map[string]bool)
		for _, stat := range snap.StatNames() {
			name := StatName(stat)
			// Stats that differ only in case, or shadow a progress family,
			// would produce duplicate series.
			if seen[name] || progress[name] != nil {
				continue
			}
			seen[name] = true

			fam, ok := counters[name]
			if !ok {
				fam = &Family{
					Name:       name,
					Help:       "Bees metric " + stat,
					Kind:       KindCounter,
					LabelNames: []string{LabelUUID},
				}
				counters[name] = fam
			}
			fam.Samples = append(fam.Samples, Sample{
				LabelValues: []string{uuid},
				Value:       snap.Stats[stat],
				Timestamp:   snap.Timestamp,
			})
		}

		seenRows := make(map[status.ExtentSize]bool)
		for _, row := range snap.Progress {
			if seenRows[row.ExtentSize] {
				continue
			}
			seenRows[row.ExtentSize] = true
			addProgress(progress, uuid, snap.Timestamp, row)
		}
	}

	families := make([]Family, 0, len(counters)+len(progress))
	for _, fam := range counters {
		families = append(families, *fam)
	}
	for _, fam := range progress {
		if len(fam.Samples) > 0 {
			families = append(families, *fam)
		}
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].Name < families[j].Name
	})
	return families
}

func addProgress(progress map[string]*Family, uuid string, ts int64, row status.ProgressRow) {
	add := func(name string, v float64) {
		fam := progress[name]
		fam.Samples = append(fam.Samples, Sample{
			LabelValues: []string{uuid, string(row.ExtentSize)},
			Value:       v,
			Timestamp:   ts,
		})
	}

	add(ProgressDataSize, float64(row.DataSize))
	if row.Point.Idle {
		add(ProgressPointIdle, 1)
	} else {
		add(ProgressPointIdle, 0)
		add(ProgressPoint, float64(row.Point.Offset))
	}
	add(ProgressGenMin, float64(row.GenMin))
	add(ProgressGenMax, float64(row.GenMax))
}
