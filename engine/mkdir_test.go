package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piolad/virtual-filesystem/vfserr"
)

// TestMkdirThenLs covers spec scenario S2: one subdirectory shows up in a
// root listing and moves the superblock's free counts by exactly one inode
// and one block.
func TestMkdirThenLs(t *testing.T) {
	path := newImage(t, 1048576)

	require.NoError(t, Mkdir(path, "/a"))

	listing, err := Ls(path, "/")
	require.NoError(t, err)
	require.True(t, listing.IsDir)
	require.Len(t, listing.Entries, 1)
	assert.Equal(t, "a", listing.Entries[0].Name)
	assert.EqualValues(t, 0, listing.Entries[0].Size)
	assert.True(t, listing.Entries[0].IsDir)

	df, err := Df(path)
	require.NoError(t, err)
	assert.EqualValues(t, 126, df.FreeInodes)
	assert.EqualValues(t, 1010, df.FreeBlocks)
}

func TestMkdirRejectsExistingLeaf(t *testing.T) {
	path := newImage(t, 1048576)
	require.NoError(t, Mkdir(path, "/a"))

	err := Mkdir(path, "/a")
	assert.ErrorIs(t, err, vfserr.ErrExists)
}

func TestMkdirRejectsMissingIntermediateComponent(t *testing.T) {
	path := newImage(t, 1048576)
	require.NoError(t, Mkdir(path, "/a"))

	err := Mkdir(path, "/a/b/c")
	assert.ErrorIs(t, err, vfserr.ErrNotFound)
}

// TestMkdirDirectoryFullLeavesCountsUnchanged covers spec scenario S6: a
// fifth mkdir under a four-entry-full parent fails without moving the
// persisted free counts.
func TestMkdirDirectoryFullLeavesCountsUnchanged(t *testing.T) {
	path := newImage(t, 1048576)

	require.NoError(t, Mkdir(path, "/a"))
	require.NoError(t, Mkdir(path, "/b"))
	require.NoError(t, Mkdir(path, "/c"))
	require.NoError(t, Mkdir(path, "/d"))

	before, err := Df(path)
	require.NoError(t, err)

	err = Mkdir(path, "/e")
	assert.ErrorIs(t, err, vfserr.ErrDirectoryFull)

	after, err := Df(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
