package engine

import (
	"io"
	"os"

	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// ImportFromHost implements ecpt: streams a host file into a new regular
// file at vfsPath. The host file must fit within DirectBlockCount blocks.
// Free block capacity is checked before any allocation happens, so a
// too-small image fails cleanly rather than leaking a partial allocation.
func ImportFromHost(imagePath string, hostPath string, vfsPath string) error {
	hostInfo, err := os.Stat(hostPath)
	if err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}
	if hostInfo.IsDir() {
		return vfserr.ErrIsADirectory.WithMessage(hostPath)
	}

	size := uint64(hostInfo.Size())
	if size > layout.DirectBlockCount*layout.BlockSize {
		return vfserr.ErrFileTooLarge.WithMessage(hostPath)
	}

	hostFile, err := os.Open(hostPath)
	if err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}
	defer hostFile.Close()

	neededBlocks := uint32((size + layout.BlockSize - 1) / layout.BlockSize)

	return withImage(imagePath, func(s *session) error {
		result, err := s.resolve(vfsPath)
		if err != nil {
			return err
		}
		if result.Kind != resolver.Absent {
			return vfserr.ErrExists.WithMessage(vfsPath)
		}

		parent, err := inode.Read(s.device, result.ParentIndex)
		if err != nil {
			return err
		}
		if !parent.IsDir() {
			return vfserr.ErrNotADirectory.WithMessage("parent of " + vfsPath)
		}
		hasSlot, err := dirent.HasFreeSlot(s.device, parent.Direct[0])
		if err != nil {
			return err
		}
		if !hasSlot {
			return vfserr.ErrDirectoryFull.WithMessage("parent of " + vfsPath)
		}
		if s.sb.FreeBlockCount < neededBlocks {
			return vfserr.ErrNoSpace.WithMessage(vfsPath)
		}

		childIndex, err := s.allocateInode()
		if err != nil {
			return err
		}

		child := &inode.Inode{LinkCount: 1, Size: uint32(size)}
		buf := make([]byte, layout.BlockSize)
		for i := uint32(0); i < neededBlocks; i++ {
			for j := range buf {
				buf[j] = 0
			}
			if _, readErr := io.ReadFull(hostFile, buf); readErr != nil &&
				readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
				return vfserr.ErrIOFailed.Wrap(readErr)
			}

			blk, err := s.allocateBlock()
			if err != nil {
				return err
			}
			if err := s.device.WriteBlock(blk, buf); err != nil {
				return err
			}
			child.Direct[i] = blk
		}

		if err := inode.Write(s.device, childIndex, child); err != nil {
			return err
		}
		if err := dirent.Insert(s.device, parent.Direct[0], result.LeafName, childIndex); err != nil {
			return err
		}
		parent.Size += layout.DirentSize
		if err := inode.Write(s.device, result.ParentIndex, parent); err != nil {
			return err
		}
		return s.sb.Store(s.device)
	})
}

// ExportToHost implements ecpf: streams a regular file at vfsPath out to a
// new host file, writing only the meaningful bytes of the last block.
func ExportToHost(imagePath string, vfsPath string, hostPath string) error {
	return withImage(imagePath, func(s *session) error {
		result, err := s.resolve(vfsPath)
		if err != nil {
			return err
		}
		if result.Kind != resolver.Found {
			return vfserr.ErrNotFound.WithMessage(vfsPath)
		}

		target, err := inode.Read(s.device, result.InodeIndex)
		if err != nil {
			return err
		}
		if target.IsDir() {
			return vfserr.ErrIsADirectory.WithMessage(vfsPath)
		}

		hostFile, err := os.Create(hostPath)
		if err != nil {
			return vfserr.ErrIOFailed.Wrap(err)
		}
		defer hostFile.Close()

		blocksUsed := target.BlocksInUse()
		remaining := target.Size
		for i := uint32(0); i < blocksUsed; i++ {
			buf, err := s.device.ReadBlock(target.Direct[i])
			if err != nil {
				return err
			}

			toWrite := uint32(layout.BlockSize)
			if remaining < layout.BlockSize {
				toWrite = remaining
			}
			if _, err := hostFile.Write(buf[:toWrite]); err != nil {
				return vfserr.ErrIOFailed.Wrap(err)
			}
			remaining -= toWrite
		}
		return nil
	})
}
