package scan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StatusSuffix is the file name suffix of bees status files.
const StatusSuffix = ".status"

// ErrInvalidID is returned for status files not named after a filesystem UUID.
var ErrInvalidID = errors.New("file name is not a filesystem uuid")

// canonical hyphenated form, e.g. 0cadef6c-c480-41f2-95b7-511609815820
const uuidLen = 36

// ParseFilesystemID extracts the filesystem UUID from the base name of a
// status file path.
func ParseFilesystemID(path string) (uuid.UUID, error) {
	name := strings.TrimSuffix(filepath.Base(path), StatusSuffix)
	if len(name) != uuidLen {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, name)
	}
	id, err := uuid.Parse(name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q: %v", ErrInvalidID, name, err)
	}
	return id, nil
}
