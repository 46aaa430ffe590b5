package status

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dataFull, _     = os.ReadFile("testdata/full.status")
	dataMinimal, _  = os.ReadFile("testdata/minimal.status")
	dataNoHeader, _ = os.ReadFile("testdata/no_header.status")
	dataDegraded, _ = os.ReadFile("testdata/degraded.status")
	dataCRLF, _     = os.ReadFile("testdata/crlf.status")
)

func Test_testDataIsValid(t *testing.T) {
	for name, data := range map[string][]byte{
		"dataFull":     dataFull,
		"dataMinimal":  dataMinimal,
		"dataNoHeader": dataNoHeader,
		"dataDegraded": dataDegraded,
		"dataCRLF":     dataCRLF,
	} {
		require.NotNil(t, data, name)
	}
}

func issuesWith(issues []Issue, severity Severity) []Issue {
	var res []Issue
	for _, issue := range issues {
		if issue.Severity == severity {
			res = append(res, issue)
		}
	}
	return res
}

func TestParse_Minimal(t *testing.T) {
	snap, issues := Parse(progressLines(string(dataMinimal)))

	assert.Equal(t, map[string]float64{"crawl_done": 5}, snap.Stats)
	assert.Equal(t, []ProgressRow{
		{ExtentSize: ExtentMax, DataSize: 524288, Point: OffsetPoint(100), GenMin: 1, GenMax: 2},
	}, snap.Progress)
	assert.Empty(t, issues)
}

func TestParse_Full(t *testing.T) {
	snap, issues := Parse(progressLines(string(dataFull)))

	assert.Empty(t, issues)
	assert.Len(t, snap.Stats, 24)
	assert.Equal(t, 5.0, snap.Stats["crawl_done"])
	assert.Equal(t, 1773455360.0, snap.Stats["dedup_bytes"])
	assert.Equal(t, 11430497.0, snap.Stats["addr_block"], "RATES values must not overwrite TOTAL values")

	require.Len(t, snap.Progress, 6)
	var buckets []ExtentSize
	for _, row := range snap.Progress {
		buckets = append(buckets, row.ExtentSize)
		assert.Equal(t, uint64(0), row.GenMin)
		assert.Equal(t, uint64(155109), row.GenMax)
	}
	assert.Equal(t, ExtentSizes, buckets)

	assert.Equal(t, uint64(22964116390), snap.Progress[0].DataSize)
	assert.Equal(t, OffsetPoint(502), snap.Progress[0].Point)
	assert.Equal(t, IdlePoint(), snap.Progress[1].Point)
	assert.Equal(t, uint64(536871961), snap.Progress[4].DataSize)
}

func TestParse_MissingProgressHeaderKeepsStats(t *testing.T) {
	snap, issues := Parse(progressLines(string(dataNoHeader)))

	assert.Equal(t, map[string]float64{"crawl_done": 3, "crawl_items": 17}, snap.Stats)
	assert.Empty(t, snap.Progress)

	errs := issuesWith(issues, SeverityError)
	require.Len(t, errs, 1)
	assert.Equal(t, SectionProgress, errs[0].Section)
	assert.Equal(t, 3, errs[0].Line)
	assert.Contains(t, errs[0].Reason, "missing PROGRESS header")

	warns := issuesWith(issues, SeverityWarning)
	require.Len(t, warns, 1)
	assert.Equal(t, "no PROGRESS data found", warns[0].Reason)
}

func TestParse_Degraded(t *testing.T) {
	snap, issues := Parse(progressLines(string(dataDegraded)))

	assert.Equal(t, map[string]float64{"crawl_done": 2, "crawl_items": 9, "crawl_ms": 40}, snap.Stats)
	assert.Equal(t, []ProgressRow{
		{ExtentSize: ExtentMax, DataSize: 1073741824, Point: IdlePoint(), GenMin: 0, GenMax: 10},
		{ExtentSize: Extent128K, DataSize: 4096, Point: OffsetPoint(13), GenMin: 5, GenMax: 3},
	}, snap.Progress)

	errs := issuesWith(issues, SeverityError)
	require.Len(t, errs, 5)
	assert.Equal(t, SectionTotal, errs[0].Section)
	assert.Equal(t, 3, errs[0].Line)
	for _, issue := range errs[1:] {
		assert.Equal(t, SectionProgress, issue.Section)
	}
	assert.Empty(t, issuesWith(issues, SeverityWarning))
}

func TestParse_CRLF(t *testing.T) {
	snap, _, err := Read(bytes.NewReader(dataCRLF), time.Unix(1700000000, 0))
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"crawl_done": 1}, snap.Stats)
}

func TestParse_EdgeCases(t *testing.T) {
	tests := map[string]struct {
		input        string
		wantStats    map[string]float64
		wantProgress int
		wantErrors   int
	}{
		"empty file": {
			input:     "",
			wantStats: map[string]float64{},
		},
		"lines before any section are ignored": {
			input:     "crawl_done=1\nTOTAL:\ncrawl_items=2\n",
			wantStats: map[string]float64{"crawl_items": 2},
		},
		"RATES only": {
			input:     "RATES:\ncrawl_done=1\n",
			wantStats: map[string]float64{},
		},
		"blank lines in TOTAL are not errors": {
			input:     "TOTAL:\n\ncrawl_done=1\n   \n",
			wantStats: map[string]float64{"crawl_done": 1},
		},
		"later values win": {
			input:     "TOTAL:\ncrawl_done=1\ncrawl_done=4\n",
			wantStats: map[string]float64{"crawl_done": 4},
		},
		"TOTAL resumes after PROGRESS": {
			input:        "PROGRESS:\nextsz\n-----\nmax 1K 1 0 1\nTOTAL:\ncrawl_done=1\n",
			wantStats:    map[string]float64{"crawl_done": 1},
			wantProgress: 1,
		},
		"lines after the progress table are ignored": {
			input:        "TOTAL:\ncrawl_done=1\nPROGRESS:\nextsz\n-----\nmax 1K 1 0 1\ntotal 0 0 0 0\ncrawl_items=3\n",
			wantStats:    map[string]float64{"crawl_done": 1},
			wantProgress: 1,
		},
		"PROGRESS marker on last line": {
			input:      "TOTAL:\ncrawl_done=1\nPROGRESS:\n",
			wantStats:  map[string]float64{"crawl_done": 1},
			wantErrors: 1,
		},
		"unparsable TOTAL line": {
			input:      "TOTAL:\nfoo bar\ncrawl_done=1\n",
			wantStats:  map[string]float64{"crawl_done": 1},
			wantErrors: 1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			snap, issues := Parse(progressLines(test.input))

			assert.Equal(t, test.wantStats, snap.Stats)
			assert.Len(t, snap.Progress, test.wantProgress)
			assert.Len(t, issuesWith(issues, SeverityError), test.wantErrors)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0cadef6c-c480-41f2-95b7-511609815820.status")
	require.NoError(t, os.WriteFile(path, dataMinimal, 0o644))
	mtime := time.Unix(1712594000, 0)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	snap, issues, err := ReadFile(path)
	require.NoError(t, err)

	assert.Empty(t, issues)
	assert.Equal(t, int64(1712594000), snap.Timestamp)
	assert.Equal(t, map[string]float64{"crawl_done": 5}, snap.Stats)
	assert.Len(t, snap.Progress, 1)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := ReadFile(filepath.Join(dir, "missing.status"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = ReadFile(dir)
	assert.Error(t, err, "reading a directory must fail")
}

func TestRead_NoModTime(t *testing.T) {
	_, _, err := Read(bytes.NewReader(dataMinimal), time.Time{})
	assert.ErrorIs(t, err, ErrNoModTime)

	_, _, err = Read(bytes.NewReader(dataMinimal), time.Unix(-5, 0))
	assert.ErrorIs(t, err, ErrNoModTime)
}

func TestRead_LongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	input := "TOTAL:\ncrawl_done=5 " + long + "\n" + long + "\ndedup_bytes=7\n" +
		"PROGRESS:\nextsz datasz point gen_min gen_max\n-----\n" +
		"max 512K 100 1 2\ntotal 0 0 0 0"

	snap, issues, err := Read(strings.NewReader(input), time.Unix(1000, 0))
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"crawl_done": 5, "dedup_bytes": 7}, snap.Stats)
	assert.Equal(t, []ProgressRow{
		{ExtentSize: ExtentMax, DataSize: 524288, Point: OffsetPoint(100), GenMin: 1, GenMax: 2},
	}, snap.Progress)
	assert.Equal(t, int64(1000), snap.Timestamp)

	errs := issuesWith(issues, SeverityError)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Line)
	assert.Equal(t, SectionTotal, errs[0].Section)
}

func TestSnapshot_StatNames(t *testing.T) {
	snap := &Snapshot{Stats: map[string]float64{"b": 1, "a": 2, "c_x": 3, "C": 4}}

	assert.Equal(t, []string{"C", "a", "b", "c_x"}, snap.StatNames())
}

func TestPoint_MarshalJSON(t *testing.T) {
	idle, err := IdlePoint().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"idle"`, string(idle))

	offset, err := OffsetPoint(502).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `502`, string(offset))

	assert.Equal(t, "idle", IdlePoint().String())
	assert.Equal(t, "502", OffsetPoint(502).String())
}
