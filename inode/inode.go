// Package inode implements component E: typed, fixed-size read/write of
// inode records in the inode table.
package inode

import (
	"bytes"
	"encoding/binary"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Inode is the in-memory form of a 64-byte on-disk inode record. The number
// of blocks in use is derived from Size (see BlocksInUse); the remaining 4
// bytes of the record are zero padding and are not represented here.
type Inode struct {
	Size        uint32
	Direct      [layout.DirectBlockCount]uint32
	LinkCount   uint32
	IsDirectory uint32
}

// onDisk is the exact 64-byte wire layout: Size, 12 direct pointers, link
// count, directory flag, and 4 bytes of padding.
type onDisk struct {
	Size        uint32
	Direct      [layout.DirectBlockCount]uint32
	LinkCount   uint32
	IsDirectory uint32
	_           uint32
}

// IsDir reports whether the inode describes a directory.
func (i *Inode) IsDir() bool {
	return i.IsDirectory != 0
}

// BlocksInUse returns ceil(Size / BlockSize), the number of leading Direct
// entries that hold real data, per spec §3's inode invariant.
func (i *Inode) BlocksInUse() uint32 {
	return (i.Size + layout.BlockSize - 1) / layout.BlockSize
}

func offsetOf(index uint32) int64 {
	return layout.InodeTableOffset + int64(index)*layout.InodeSize
}

// Read loads the inode at the given table index.
func Read(device *blockdev.Device, index uint32) (*Inode, error) {
	if index >= layout.InodeCount {
		return nil, vfserr.ErrInvalidArgument.WithMessage("inode index out of range")
	}

	raw := make([]byte, layout.InodeSize)
	if err := device.ReadAt(offsetOf(index), raw); err != nil {
		return nil, err
	}

	var od onDisk
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &od); err != nil {
		return nil, vfserr.ErrIOFailed.Wrap(err)
	}

	return &Inode{
		Size:        od.Size,
		Direct:      od.Direct,
		LinkCount:   od.LinkCount,
		IsDirectory: od.IsDirectory,
	}, nil
}

// Write stores ino at the given table index.
func Write(device *blockdev.Device, index uint32, ino *Inode) error {
	if index >= layout.InodeCount {
		return vfserr.ErrInvalidArgument.WithMessage("inode index out of range")
	}

	od := onDisk{
		Size:        ino.Size,
		Direct:      ino.Direct,
		LinkCount:   ino.LinkCount,
		IsDirectory: ino.IsDirectory,
	}

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, &od); err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}
	return device.WriteAt(offsetOf(index), buf.Bytes())
}
