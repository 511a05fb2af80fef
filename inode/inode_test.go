package inode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/layout"
)

func newDevice(t *testing.T) *blockdev.Device {
	t.Helper()
	backing := make([]byte, layout.InodeTableOffset+layout.InodeTableBlocks*layout.BlockSize)
	return blockdev.New(bytesextra.NewReadWriteSeeker(backing))
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	device := newDevice(t)

	original := &Inode{
		Size:        layout.BlockSize*2 + 17,
		LinkCount:   3,
		IsDirectory: 1,
	}
	original.Direct[0] = 40
	original.Direct[1] = 41
	original.Direct[2] = 42

	require.NoError(t, Write(device, 5, original))

	loaded, err := Read(device, 5)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestBlocksInUseRoundsUp(t *testing.T) {
	ino := &Inode{Size: layout.BlockSize + 1}
	assert.EqualValues(t, 2, ino.BlocksInUse())

	empty := &Inode{Size: 0}
	assert.EqualValues(t, 0, empty.BlocksInUse())

	exact := &Inode{Size: layout.BlockSize * 3}
	assert.EqualValues(t, 3, exact.BlocksInUse())
}

func TestIsDir(t *testing.T) {
	assert.True(t, (&Inode{IsDirectory: 1}).IsDir())
	assert.False(t, (&Inode{IsDirectory: 0}).IsDir())
}

func TestReadRejectsOutOfRangeIndex(t *testing.T) {
	device := newDevice(t)
	_, err := Read(device, layout.InodeCount)
	assert.Error(t, err)
}
