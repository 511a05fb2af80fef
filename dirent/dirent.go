// Package dirent implements component F: lookup, insertion, and removal of
// named entries within a single directory block. A directory always
// occupies exactly one data block (spec §3), so every function here reads
// or writes that one block whole.
package dirent

import (
	"bytes"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Entry is the in-memory form of one 256-byte directory entry.
type Entry struct {
	Name       string
	InodeIndex uint32
}

// Free reports whether this slot holds no entry.
func (e Entry) Free() bool {
	return e.InodeIndex == 0
}

func decodeEntry(raw []byte) Entry {
	nameBytes := raw[:layout.MaxFileNameLength]
	nul := bytes.IndexByte(nameBytes, 0)
	name := string(nameBytes)
	if nul >= 0 {
		name = string(nameBytes[:nul])
	}
	inodeIndex := leUint32(raw[layout.MaxFileNameLength:])
	return Entry{Name: name, InodeIndex: inodeIndex}
}

func encodeEntry(e Entry) []byte {
	raw := make([]byte, layout.DirentSize)
	name := e.Name
	if len(name) > layout.MaxFileNameLength-1 {
		name = name[:layout.MaxFileNameLength-1]
	}
	copy(raw, name)
	putLeUint32(raw[layout.MaxFileNameLength:], e.InodeIndex)
	return raw
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// ReadBlock decodes all DirentsPerBlock entries from the directory's data
// block, in slot order.
func ReadBlock(device *blockdev.Device, blockIndex uint32) ([]Entry, error) {
	raw, err := device.ReadBlock(blockIndex)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, layout.DirentsPerBlock)
	for i := range entries {
		start := i * layout.DirentSize
		entries[i] = decodeEntry(raw[start : start+layout.DirentSize])
	}
	return entries, nil
}

// WriteBlock encodes entries (which must have exactly DirentsPerBlock
// elements) and writes them back to the directory's data block.
func WriteBlock(device *blockdev.Device, blockIndex uint32, entries []Entry) error {
	if len(entries) != layout.DirentsPerBlock {
		return vfserr.ErrInvalidArgument.WithMessage("directory block needs exactly DirentsPerBlock entries")
	}

	raw := make([]byte, layout.BlockSize)
	for i, e := range entries {
		copy(raw[i*layout.DirentSize:], encodeEntry(e))
	}
	return device.WriteBlock(blockIndex, raw)
}

// Find performs a linear scan of blockIndex's entries for name. The first
// match wins; a free slot (InodeIndex == 0) never matches.
func Find(device *blockdev.Device, blockIndex uint32, name string) (Entry, bool, error) {
	entries, err := ReadBlock(device, blockIndex)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if !e.Free() && e.Name == name {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// Insert writes (name, childInodeIndex) into the first free slot of
// blockIndex and returns ErrDirectoryFull if none is free. It does not touch
// the parent inode; callers are responsible for updating the parent's size
// and persisting it, per spec §4.F.
func Insert(device *blockdev.Device, blockIndex uint32, name string, childInodeIndex uint32) error {
	entries, err := ReadBlock(device, blockIndex)
	if err != nil {
		return err
	}

	for i, e := range entries {
		if e.Free() {
			entries[i] = Entry{Name: name, InodeIndex: childInodeIndex}
			return WriteBlock(device, blockIndex, entries)
		}
	}
	return vfserr.ErrDirectoryFull
}

// HasFreeSlot reports whether blockIndex has room for another entry, without
// modifying it. Used to pre-check capacity before allocating an inode/block,
// so a full parent never leaks an orphaned allocation (spec §7/§9).
func HasFreeSlot(device *blockdev.Device, blockIndex uint32) (bool, error) {
	entries, err := ReadBlock(device, blockIndex)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Free() {
			return true, nil
		}
	}
	return false, nil
}

// Remove clears the slot matching both inodeIndex and name, per spec §4.F's
// removal contract ("locate slot by (child_inode_index, name)"). It reports
// whether a matching slot was found and cleared.
func Remove(device *blockdev.Device, blockIndex uint32, inodeIndex uint32, name string) (bool, error) {
	entries, err := ReadBlock(device, blockIndex)
	if err != nil {
		return false, err
	}

	for i, e := range entries {
		if e.InodeIndex == inodeIndex && e.Name == name {
			entries[i] = Entry{}
			return true, WriteBlock(device, blockIndex, entries)
		}
	}
	return false, nil
}

// CountLive returns the number of non-free slots in blockIndex.
func CountLive(device *blockdev.Device, blockIndex uint32) (int, error) {
	entries, err := ReadBlock(device, blockIndex)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if !e.Free() {
			count++
		}
	}
	return count, nil
}
