package superblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/layout"
)

func TestStoreThenLoadRoundTrips(t *testing.T) {
	backing := make([]byte, layout.BlockSize)
	device := blockdev.New(bytesextra.NewReadWriteSeeker(backing))

	original := &Superblock{
		TotalBlockCount: 512,
		TotalInodeCount: layout.InodeCount,
		FreeInodeCount:  layout.InodeCount - 1,
		FreeBlockCount:  499,
		BlockSize:       layout.BlockSize,
		DataStartOffset: layout.DataBlocksOffset,
	}
	require.NoError(t, original.Store(device))

	loaded, err := Load(device)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
