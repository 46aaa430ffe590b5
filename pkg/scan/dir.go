package scan

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrNotDirectory is returned when the stats path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// CheckDir verifies that dir is a directory the process can list and read.
func CheckDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		if errors.Is(err, unix.ENOTDIR) {
			return fmt.Errorf("cannot access stats directory %s: %w", dir, ErrNotDirectory)
		}
		return fmt.Errorf("cannot access stats directory %s: %w", dir, err)
	}
	unix.Close(fd)

	if err := unix.Access(dir, unix.R_OK|unix.X_OK); err != nil {
		return fmt.Errorf("cannot access stats directory %s: %w", dir, err)
	}
	return nil
}
