package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKnownPreset(t *testing.T) {
	bytes, ok := Resolve("floppy1440k")
	assert.True(t, ok)
	assert.EqualValues(t, 1474560, bytes)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	bytes, ok := Resolve("HD10M")
	assert.True(t, ok)
	assert.EqualValues(t, 10485760, bytes)
}

func TestResolveUnknownSlug(t *testing.T) {
	_, ok := Resolve("not-a-real-preset")
	assert.False(t, ok)
}

func TestNamesCoversEveryRow(t *testing.T) {
	names := Names()
	assert.Len(t, names, 6)
	assert.Contains(t, names, "floppy360k")
}
