package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/danpilch/bees-exporter/pkg/sanity"
	"github.com/danpilch/bees-exporter/pkg/status"
)

const statusPattern = "*" + StatusSuffix

// DefaultWorkers is the number of status files parsed concurrently.
const DefaultWorkers = 4

// Options configures a Scanner.
type Options struct {
	// Workers bounds concurrent file parses; values below 1 mean DefaultWorkers.
	Workers int
	// Cache enables reuse of parses for files whose mtime and size did not change.
	Cache bool
	// Logger receives per-file, per-line and per-row diagnostics.
	Logger *logrus.Logger
}

// Scanner collects snapshots from every status file in a directory.
// It holds no state between scans unless the cache is enabled.
type Scanner struct {
	dir     string
	workers int
	cache   *Cache
	logger  *logrus.Logger
}

// New creates a scanner for dir after checking that dir is accessible.
func New(dir string, opts Options) (*Scanner, error) {
	if err := CheckDir(dir); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	s := &Scanner{
		dir:     dir,
		workers: workers,
		logger:  logger,
	}
	if opts.Cache {
		s.cache = NewCache()
	}
	return s, nil
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// Scan parses every status file in the directory. It always returns a
// Result; files that cannot be used are listed in Result.Skips.
func (s *Scanner) Scan(ctx context.Context) *Result {
	res := newResult()

	paths, err := s.discover()
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"dir":   s.dir,
			"error": err,
		}).Error("Failed to list status files")
		return res
	}
	s.logger.WithFields(logrus.Fields{
		"dir":   s.dir,
		"files": len(paths),
	}).Debug("Scanning status files")

	results := make([]FileResult, len(paths))
	p := pool.New().WithMaxGoroutines(s.workers)
	for i, path := range paths {
		i, path := i, path
		p.Go(func() {
			results[i] = s.scanFile(ctx, path)
		})
	}
	p.Wait()

	for _, fr := range results {
		if fr.Err == nil {
			if _, dup := res.Snapshots[fr.ID]; dup {
				s.logger.WithFields(logrus.Fields{
					"path": fr.Path,
					"uuid": fr.ID,
				}).Warn("Duplicate filesystem uuid, keeping the last file")
			}
		}
		res.add(fr)
	}

	if s.cache != nil {
		keep := make(map[string]bool, len(paths))
		for _, path := range paths {
			keep[path] = true
		}
		s.cache.Retain(keep)
	}

	return res
}

func (s *Scanner) discover() ([]string, error) {
	names, err := doublestar.Glob(os.DirFS(s.dir), statusPattern)
	if err != nil {
		return nil, fmt.Errorf("cannot glob %s: %w", statusPattern, err)
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(s.dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Scanner) scanFile(ctx context.Context, path string) FileResult {
	fr := FileResult{Path: path}
	log := s.logger.WithField("path", path)

	id, err := ParseFilesystemID(path)
	if err != nil {
		log.WithField("error", err).Error("Failed to parse UUID from filename")
		fr.Err = err
		return fr
	}
	fr.ID = id
	log = log.WithField("uuid", id)

	if err := ctx.Err(); err != nil {
		fr.Err = fmt.Errorf("scan cancelled: %w", err)
		return fr
	}

	snap, issues, err := s.read(path)
	if err != nil {
		log.WithField("error", err).Error("Failed to collect stats from file")
		fr.Err = err
		return fr
	}
	fr.Snapshot, fr.Issues = snap, issues

	for _, issue := range issues {
		entry := log.WithFields(logrus.Fields{
			"section": issue.Section,
			"reason":  issue.Reason,
		})
		if issue.Line > 0 {
			entry = entry.WithField("line", issue.Line)
		}
		switch issue.Severity {
		case status.SeverityError:
			entry.Error("Skipped malformed status data")
		case status.SeverityWarning:
			entry.Warn("Incomplete status file")
		default:
			entry.Debug("Status file note")
		}
	}
	for _, r := range sanity.Failed(sanity.Check(snap)) {
		log.WithFields(logrus.Fields{
			"check":   r.Check,
			"details": r.Details,
		}).Warn("Suspicious progress row")
	}
	log.WithFields(logrus.Fields{
		"stats":    len(snap.Stats),
		"progress": len(snap.Progress),
	}).Debug("Parsed status file")

	return fr
}

func (s *Scanner) read(path string) (*status.Snapshot, []status.Issue, error) {
	if s.cache == nil {
		return status.ReadFile(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot stat status file: %w", err)
	}
	if snap, issues, ok := s.cache.Load(path, info); ok {
		s.logger.WithField("path", path).Trace("Reusing cached parse")
		return snap, issues, nil
	}

	snap, issues, err := status.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	s.cache.Store(path, info, snap, issues)
	return snap, issues, nil
}
