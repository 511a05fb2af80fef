package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/vfserr"
)

func newDevice(t *testing.T) *blockdev.Device {
	t.Helper()
	backing := make([]byte, layout.BlockSize)
	return blockdev.New(bytesextra.NewReadWriteSeeker(backing))
}

func TestAllocateFirstFit(t *testing.T) {
	device := newDevice(t)

	first, err := Allocate(device, 0, 16, vfserr.ErrNoSpace)
	require.NoError(t, err)
	assert.EqualValues(t, 0, first)

	second, err := Allocate(device, 0, 16, vfserr.ErrNoSpace)
	require.NoError(t, err)
	assert.EqualValues(t, 1, second)

	set, err := IsSet(device, 0, 0)
	require.NoError(t, err)
	assert.True(t, set)
}

func TestReleaseMakesBitReusable(t *testing.T) {
	device := newDevice(t)

	index, err := Allocate(device, 0, 8, vfserr.ErrNoSpace)
	require.NoError(t, err)
	require.NoError(t, Release(device, 0, index))

	set, err := IsSet(device, 0, index)
	require.NoError(t, err)
	assert.False(t, set)

	reused, err := Allocate(device, 0, 8, vfserr.ErrNoSpace)
	require.NoError(t, err)
	assert.Equal(t, index, reused)
}

func TestAllocateExhaustedReturnsCallerCode(t *testing.T) {
	device := newDevice(t)

	for i := 0; i < 4; i++ {
		_, err := Allocate(device, 0, 4, vfserr.ErrNoInodes)
		require.NoError(t, err)
	}

	_, err := Allocate(device, 0, 4, vfserr.ErrNoInodes)
	assert.ErrorIs(t, err, vfserr.ErrNoInodes)
}
