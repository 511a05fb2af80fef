package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/internal/vfstest"
	"github.com/piolad/virtual-filesystem/layout"
)

func TestResolveRejectsRelativePaths(t *testing.T) {
	device := vfstest.NewFormattedDevice(t, 256*1024)

	result, err := Resolve(device, "etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, BadPath, result.Kind)
}

func TestResolveRoot(t *testing.T) {
	device := vfstest.NewFormattedDevice(t, 256*1024)

	result, err := Resolve(device, "/")
	require.NoError(t, err)
	assert.Equal(t, Found, result.Kind)
	assert.True(t, result.Root)
	assert.EqualValues(t, layout.RootInodeIndex, result.InodeIndex)
}

func TestResolveAbsentLeaf(t *testing.T) {
	device := vfstest.NewFormattedDevice(t, 256*1024)

	result, err := Resolve(device, "/missing")
	require.NoError(t, err)
	assert.Equal(t, Absent, result.Kind)
	assert.EqualValues(t, layout.RootInodeIndex, result.ParentIndex)
	assert.Equal(t, "missing", result.LeafName)
}

func TestResolveFoundAfterInsert(t *testing.T) {
	device := vfstest.NewFormattedDevice(t, 256*1024)

	require.NoError(t, dirent.Insert(device, layout.RootDataBlock, "child", 1))

	childInode := &inode.Inode{IsDirectory: 1, LinkCount: 1}
	require.NoError(t, inode.Write(device, 1, childInode))

	result, err := Resolve(device, "/child")
	require.NoError(t, err)
	require.Equal(t, Found, result.Kind)
	assert.EqualValues(t, 1, result.InodeIndex)
}

func TestResolveNonFinalComponentNotADirectory(t *testing.T) {
	device := vfstest.NewFormattedDevice(t, 256*1024)

	require.NoError(t, dirent.Insert(device, layout.RootDataBlock, "file", 1))
	fileInode := &inode.Inode{LinkCount: 1}
	require.NoError(t, inode.Write(device, 1, fileInode))

	result, err := Resolve(device, "/file/child")
	require.NoError(t, err)
	assert.Equal(t, BadPath, result.Kind)
}

func TestResolveTruncatesLongNames(t *testing.T) {
	device := vfstest.NewFormattedDevice(t, 256*1024)

	long := make([]byte, layout.MaxFileNameLength+20)
	for i := range long {
		long[i] = 'a'
	}

	result, err := Resolve(device, "/"+string(long))
	require.NoError(t, err)
	require.Equal(t, Absent, result.Kind)
	assert.Len(t, result.LeafName, layout.MaxFileNameLength-1)
}
