package engine

import (
	"os"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/format"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Format creates or wipes imagePath and writes a fresh, empty filesystem of
// sizeBytes (rounded down to a block multiple). Unlike every other
// operation, it doesn't expect an existing valid superblock to load.
func Format(imagePath string, sizeBytes uint64) error {
	file, err := os.OpenFile(imagePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}
	device := blockdev.New(file)
	defer device.Close()

	return format.Format(device, sizeBytes, func(n uint64) error {
		return file.Truncate(int64(n))
	})
}
