// Package vfstest builds in-memory images for tests, the same way
// testing/images.go in the pack hands tests an io.ReadWriteSeeker over a
// plain byte slice instead of a real file.
package vfstest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/format"
)

// NewFormattedDevice returns a freshly formatted, in-memory device of
// sizeBytes (rounded down to a block multiple by format.Format).
func NewFormattedDevice(t *testing.T, sizeBytes uint64) *blockdev.Device {
	t.Helper()

	backing := make([]byte, sizeBytes)
	stream := bytesextra.NewReadWriteSeeker(backing)
	device := blockdev.New(stream)

	resize := func(n uint64) error {
		// The backing slice is already sized to the caller's request; format
		// only ever rounds it down, so no reallocation is needed here.
		return nil
	}
	require.NoError(t, format.Format(device, sizeBytes, resize))
	return device
}
