package status

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ErrNoModTime is returned when a status file has no usable modification time.
var ErrNoModTime = errors.New("no modification time")

// ReadFile reads and parses one status file. Only I/O failures and a missing
// modification time are errors; parse problems are returned as issues.
func ReadFile(path string) (*Snapshot, []Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open status file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot stat status file: %w", err)
	}
	return Read(f, info.ModTime())
}

// Read parses a status file from r, stamping the snapshot with modTime.
func Read(r io.Reader, modTime time.Time) (*Snapshot, []Issue, error) {
	if modTime.IsZero() || modTime.Unix() < 0 {
		return nil, nil, ErrNoModTime
	}

	lines, err := readLines(r)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read status file: %w", err)
	}

	snap, issues := Parse(lines)
	snap.Timestamp = modTime.Unix()
	return snap, issues, nil
}

// readLines splits r into lines of any length. A final line without a
// trailing newline is kept.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
