package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// TestExtendThenReduceToZero covers spec scenario S5: extending a 500-byte
// file by 2000 bytes grows it to 2500 bytes across three direct blocks with
// a zeroed tail, and reducing it by at least its full size frees it.
func TestExtendThenReduceToZero(t *testing.T) {
	imagePath := newImage(t, 1048576)
	require.NoError(t, Mkdir(imagePath, "/a"))

	hostPath := writeHostFile(t, "h", 500)
	require.NoError(t, ImportFromHost(imagePath, hostPath, "/x"))

	require.NoError(t, Extend(imagePath, "/x", 2000))

	require.NoError(t, withImage(imagePath, func(s *session) error {
		result, err := s.resolve("/x")
		require.NoError(t, err)
		require.Equal(t, resolver.Found, result.Kind)

		target, err := inode.Read(s.device, result.InodeIndex)
		require.NoError(t, err)
		assert.EqualValues(t, 2500, target.Size)

		nonZero := 0
		for _, blk := range target.Direct {
			if blk != 0 {
				nonZero++
			}
		}
		assert.Equal(t, 3, nonZero)

		lastBlock, err := s.device.ReadBlock(target.Direct[2])
		require.NoError(t, err)
		tailStart := 2500 - 2*layout.BlockSize
		for _, b := range lastBlock[tailStart:] {
			assert.Zero(t, b)
		}
		return nil
	}))

	require.NoError(t, Reduce(imagePath, "/x", 2500))

	_, err := Ls(imagePath, "/x")
	assert.ErrorIs(t, err, vfserr.ErrNotFound)
}

func TestExtendRejectsFileTooLarge(t *testing.T) {
	imagePath := newImage(t, 1048576)
	require.NoError(t, Mkdir(imagePath, "/a"))

	hostPath := writeHostFile(t, "h", 500)
	require.NoError(t, ImportFromHost(imagePath, hostPath, "/x"))

	err := Extend(imagePath, "/x", layout.DirectBlockCount*layout.BlockSize)
	assert.ErrorIs(t, err, vfserr.ErrFileTooLarge)
}

func TestReducePartialShrinksWithoutFreeing(t *testing.T) {
	imagePath := newImage(t, 1048576)
	require.NoError(t, Mkdir(imagePath, "/a"))

	hostPath := writeHostFile(t, "h", 2500)
	require.NoError(t, ImportFromHost(imagePath, hostPath, "/x"))

	require.NoError(t, Reduce(imagePath, "/x", 600))

	listing, err := Ls(imagePath, "/x")
	require.NoError(t, err)
	assert.False(t, listing.IsDir)
	assert.EqualValues(t, 1900, listing.Size)
}
