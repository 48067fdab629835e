package util

import (
	"os"

	"github.com/pkg/errors"
)

// NewImage creates a sparse disk image of sizeGB gibibytes at path.
// If a file already exists at path it is left untouched, so repeated
// provisioning of the same guest reuses its disk.
func NewImage(path string, sizeGB int64) error {
	if sizeGB <= 0 {
		return errors.Errorf("image size must be positive, got %dGB", sizeGB)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "checking image %q", path)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating image %q", path)
	}
	if err := f.Truncate(sizeGB << 30); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrapf(err, "sizing image %q to %dGB", path, sizeGB)
	}
	return errors.Wrapf(f.Close(), "closing image %q", path)
}
