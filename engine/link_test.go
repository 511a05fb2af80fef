package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// TestCreateHardLinkThenRemove covers spec scenario S4: linking /a/f to
// /a/g brings the link count to 2; removing /a/f drops it back to 1 without
// freeing the data, so /a/g still reproduces the original bytes.
func TestCreateHardLinkThenRemove(t *testing.T) {
	imagePath := newImage(t, 1048576)
	require.NoError(t, Mkdir(imagePath, "/a"))

	hostPath := writeHostFile(t, "h", 2500)
	require.NoError(t, ImportFromHost(imagePath, hostPath, "/a/f"))

	require.NoError(t, CreateHardLink(imagePath, "/a/f", "/a/g"))

	linkCountOf := func(path string) uint32 {
		var count uint32
		require.NoError(t, withImage(imagePath, func(s *session) error {
			result, err := s.resolve(path)
			require.NoError(t, err)
			require.Equal(t, resolver.Found, result.Kind)
			target, err := inode.Read(s.device, result.InodeIndex)
			require.NoError(t, err)
			count = target.LinkCount
			return nil
		}))
		return count
	}

	assert.EqualValues(t, 2, linkCountOf("/a/f"))
	assert.EqualValues(t, 2, linkCountOf("/a/g"))

	require.NoError(t, Remove(imagePath, "/a/f"))
	assert.EqualValues(t, 1, linkCountOf("/a/g"))

	_, err := Ls(imagePath, "/a/f")
	assert.ErrorIs(t, err, vfserr.ErrNotFound)

	outPath := filepath.Join(t.TempDir(), "out")
	require.NoError(t, ExportToHost(imagePath, "/a/g", outPath))

	original, err := os.ReadFile(hostPath)
	require.NoError(t, err)
	roundTripped, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, original, roundTripped)
}

func TestCreateHardLinkRejectsMissingSource(t *testing.T) {
	imagePath := newImage(t, 1048576)
	err := CreateHardLink(imagePath, "/missing", "/dst")
	assert.ErrorIs(t, err, vfserr.ErrNotFound)
}

func TestCreateHardLinkRejectsExistingDestination(t *testing.T) {
	imagePath := newImage(t, 1048576)
	require.NoError(t, Mkdir(imagePath, "/a"))

	err := CreateHardLink(imagePath, "/a", "/a")
	assert.ErrorIs(t, err, vfserr.ErrExists)
}

func TestRemoveRejectsDirectory(t *testing.T) {
	imagePath := newImage(t, 1048576)
	require.NoError(t, Mkdir(imagePath, "/a"))

	err := Remove(imagePath, "/a")
	assert.ErrorIs(t, err, vfserr.ErrIsADirectory)
}
