// Package format implements component H: turning a zeroed image into a
// valid, empty filesystem with a root directory "/".
package format

import (
	"encoding/binary"

	"github.com/noxer/bytewriter"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/superblock"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Format truncates the device's backing stream to sizeBytes (rounded down
// to a multiple of layout.BlockSize) and writes a fresh, empty filesystem
// into it: superblock, group descriptor, bitmaps, the root inode, and the
// root's (intentionally bare, per spec §4.H) data block.
//
// resize must truncate/extend the backing stream to exactly the rounded
// size; it is supplied by the caller since Device has no notion of resizing
// its own stream.
func Format(device *blockdev.Device, sizeBytes uint64, resize func(uint64) error) error {
	rounded := (sizeBytes / layout.BlockSize) * layout.BlockSize
	if rounded < layout.MinImageSize {
		return vfserr.ErrInvalidArgument.WithMessage("image too small to hold the reserved region plus one data block")
	}

	if err := resize(rounded); err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}

	totalBlocks := uint32(rounded / layout.BlockSize)

	sb := &superblock.Superblock{
		TotalBlockCount: totalBlocks,
		TotalInodeCount: layout.InodeCount,
		FreeInodeCount:  layout.InodeCount - 1,
		FreeBlockCount:  totalBlocks - layout.ReservedBlocks - 1,
		BlockSize:       layout.BlockSize,
		DataStartOffset: layout.DataBlocksOffset,
	}
	if err := sb.Store(device); err != nil {
		return err
	}

	if err := writeGroupDescriptor(device, sb); err != nil {
		return err
	}
	if err := writeBitmaps(device); err != nil {
		return err
	}

	root := &inode.Inode{
		IsDirectory: 1,
		LinkCount:   1,
		Size:        0,
	}
	root.Direct[0] = layout.RootDataBlock
	if err := inode.Write(device, layout.RootInodeIndex, root); err != nil {
		return err
	}

	// The root's data block is left all-zero: no "." or ".." entries. This
	// is an accepted asymmetry with freshly made subdirectories, which do
	// get both (spec §4.H, §9).
	zeroBlock := make([]byte, layout.BlockSize)
	if err := device.WriteBlock(layout.RootDataBlock, zeroBlock); err != nil {
		return err
	}

	for index := uint32(1); index < layout.InodeCount; index++ {
		if err := inode.Write(device, index, &inode.Inode{}); err != nil {
			return err
		}
	}

	return nil
}

// writeGroupDescriptor writes the static block-group descriptor at block 1.
// Per spec §3 it is written only at format time; the engine never maintains
// its counters on mutation.
func writeGroupDescriptor(device *blockdev.Device, sb *superblock.Superblock) error {
	buf := make([]byte, layout.BlockSize)
	writer := bytewriter.New(buf)

	binary.Write(writer, binary.LittleEndian, uint32(layout.BlockBitmapOffset/layout.BlockSize))
	binary.Write(writer, binary.LittleEndian, uint32(layout.InodeBitmapOffset/layout.BlockSize))
	binary.Write(writer, binary.LittleEndian, uint32(layout.InodeTableOffset/layout.BlockSize))
	binary.Write(writer, binary.LittleEndian, uint16(sb.FreeBlockCount))
	binary.Write(writer, binary.LittleEndian, uint16(sb.FreeInodeCount))
	binary.Write(writer, binary.LittleEndian, uint16(1)) // one directory in use: the root.

	return device.WriteBlock(layout.GroupDescriptorOffset/layout.BlockSize, buf)
}

// writeBitmaps sets the first ReservedBlocks+1 bits of the block bitmap
// (reserved region plus the root's one data block) and bit 0 of the inode
// bitmap (the root inode), per spec §3.
func writeBitmaps(device *blockdev.Device) error {
	blockBitmap := make([]byte, layout.BlockSize)
	for i := 0; i <= layout.ReservedBlocks; i++ {
		blockBitmap[i/8] |= 1 << uint(i%8)
	}
	if err := device.WriteBlock(layout.BlockBitmapOffset/layout.BlockSize, blockBitmap); err != nil {
		return err
	}

	inodeBitmap := make([]byte, layout.BlockSize)
	inodeBitmap[0] = 0x01
	return device.WriteBlock(layout.InodeBitmapOffset/layout.BlockSize, inodeBitmap)
}
