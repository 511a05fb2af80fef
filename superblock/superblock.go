// Package superblock implements component C: the 24-byte volume header
// stored at block 0. It is the one piece of filesystem state threaded
// through every operation as a plain value -- never a process-wide global,
// per spec §9's "Global superblock state" design note.
package superblock

import (
	"bytes"
	"encoding/binary"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Size is the number of meaningful bytes in the on-disk record; the rest of
// block 0 is zero padding.
const Size = 24

// Superblock is the in-memory form of the volume header.
type Superblock struct {
	TotalBlockCount uint32
	TotalInodeCount uint32
	FreeInodeCount  uint32
	FreeBlockCount  uint32
	BlockSize       uint32
	DataStartOffset uint32
}

// Load reads the superblock from block 0 of device.
func Load(device *blockdev.Device) (*Superblock, error) {
	raw := make([]byte, Size)
	if err := device.ReadAt(layout.SuperblockOffset, raw); err != nil {
		return nil, err
	}

	var sb Superblock
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &sb); err != nil {
		return nil, vfserr.ErrIOFailed.Wrap(err)
	}
	return &sb, nil
}

// Store writes sb back to block 0.
func (sb *Superblock) Store(device *blockdev.Device) error {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, sb); err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}
	return device.WriteAt(layout.SuperblockOffset, buf.Bytes())
}
