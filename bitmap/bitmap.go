// Package bitmap implements component D: first-fit allocation and release
// over an on-disk bitmap, one bit per allocatable unit (block or inode).
//
// Every operation touches exactly the one byte containing the bit in
// question: it is read off the block device, wrapped as a single-byte
// github.com/boljen/go-bitmap value to test and flip the bit, then written
// back. The allocator never loads a whole bitmap block into memory, and it
// never updates the superblock's free counts -- callers do that exactly once
// per allocation or release, per spec §4.D.
package bitmap

import (
	bm "github.com/boljen/go-bitmap"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Allocate scans indices [0, capacity) starting at the bitmap stored at
// byteOffset, first-fit, and marks the first free index in use. whenFull is
// returned if every index is already in use -- callers pass ErrNoSpace for a
// block bitmap and ErrNoInodes for an inode bitmap, per spec §7's distinct
// exhaustion codes.
func Allocate(device *blockdev.Device, byteOffset int64, capacity uint32, whenFull vfserr.Code) (uint32, error) {
	for i := uint32(0); i < capacity; i++ {
		byteOff := byteOffset + int64(i/8)
		b, err := device.ReadByte(byteOff)
		if err != nil {
			return 0, err
		}

		bit := bm.Bitmap([]byte{b})
		if bit.Get(int(i % 8)) {
			continue
		}
		bit.Set(int(i%8), true)
		if err := device.WriteByte(byteOff, bit[0]); err != nil {
			return 0, err
		}
		return i, nil
	}
	return 0, whenFull
}

// Release clears the bit for index at the bitmap stored at byteOffset.
// Releasing an already-free bit is a silent no-op, per spec §4.D, though it
// indicates a caller bug.
func Release(device *blockdev.Device, byteOffset int64, index uint32) error {
	byteOff := byteOffset + int64(index/8)
	b, err := device.ReadByte(byteOff)
	if err != nil {
		return err
	}

	bit := bm.Bitmap([]byte{b})
	bit.Set(int(index%8), false)
	return device.WriteByte(byteOff, bit[0])
}

// IsSet reports whether index's bit is currently set, without modifying it.
func IsSet(device *blockdev.Device, byteOffset int64, index uint32) (bool, error) {
	b, err := device.ReadByte(byteOffset + int64(index/8))
	if err != nil {
		return false, err
	}
	return bm.Bitmap([]byte{b}).Get(int(index % 8)), nil
}
