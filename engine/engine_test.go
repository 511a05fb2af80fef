package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newImage formats a fresh image of sizeBytes at a temp path and returns
// that path, ready for engine operations.
func newImage(t *testing.T, sizeBytes uint64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.vfs")
	require.NoError(t, Format(path, sizeBytes))
	return path
}
