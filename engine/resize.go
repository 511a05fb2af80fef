package engine

import (
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Extend implements ext: grows path by n bytes. n == 0 is a no-op. The
// resulting file must still fit within DirectBlockCount direct pointers;
// every newly needed block is allocated and zeroed before the inode records
// it.
func Extend(imagePath string, path string, n uint32) error {
	if n == 0 {
		return withImage(imagePath, func(s *session) error {
			result, err := s.resolve(path)
			if err != nil {
				return err
			}
			if result.Kind != resolver.Found {
				return vfserr.ErrNotFound.WithMessage(path)
			}
			target, err := inode.Read(s.device, result.InodeIndex)
			if err != nil {
				return err
			}
			if target.IsDir() {
				return vfserr.ErrIsADirectory.WithMessage(path)
			}
			return nil
		})
	}

	return withImage(imagePath, func(s *session) error {
		result, err := s.resolve(path)
		if err != nil {
			return err
		}
		if result.Kind != resolver.Found {
			return vfserr.ErrNotFound.WithMessage(path)
		}

		target, err := inode.Read(s.device, result.InodeIndex)
		if err != nil {
			return err
		}
		if target.IsDir() {
			return vfserr.ErrIsADirectory.WithMessage(path)
		}

		oldBlocks := target.BlocksInUse()
		newSize := target.Size + n
		newBlocks := (newSize + layout.BlockSize - 1) / layout.BlockSize
		if newBlocks > layout.DirectBlockCount {
			return vfserr.ErrFileTooLarge.WithMessage(path)
		}

		zero := make([]byte, layout.BlockSize)
		for i := oldBlocks; i < newBlocks; i++ {
			blk, err := s.allocateBlock()
			if err != nil {
				return err
			}
			if err := s.device.WriteBlock(blk, zero); err != nil {
				return err
			}
			target.Direct[i] = blk
		}

		target.Size = newSize
		if err := inode.Write(s.device, result.InodeIndex, target); err != nil {
			return err
		}
		return s.sb.Store(s.device)
	})
}

// Reduce implements red: shrinks path by n bytes. If n >= size, path is
// removed the same way Remove does it: its directory entry is cleared and
// one link dropped, and the data blocks and inode are released only if that
// was the last link. Otherwise surplus blocks are released and their inode
// slots zeroed.
func Reduce(imagePath string, path string, n uint32) error {
	return withImage(imagePath, func(s *session) error {
		result, err := s.resolve(path)
		if err != nil {
			return err
		}
		if result.Kind != resolver.Found {
			return vfserr.ErrNotFound.WithMessage(path)
		}

		target, err := inode.Read(s.device, result.InodeIndex)
		if err != nil {
			return err
		}
		if target.IsDir() {
			return vfserr.ErrIsADirectory.WithMessage(path)
		}

		if n >= target.Size {
			parent, err := inode.Read(s.device, result.ParentIndex)
			if err != nil {
				return err
			}
			if err := s.removeFromParent(result.ParentIndex, parent, result.InodeIndex, result.LeafName); err != nil {
				return err
			}
			if err := s.unlinkInode(result.InodeIndex, target); err != nil {
				return err
			}
			return s.sb.Store(s.device)
		}

		oldBlocks := target.BlocksInUse()
		newSize := target.Size - n
		newBlocks := (newSize + layout.BlockSize - 1) / layout.BlockSize

		for i := newBlocks; i < oldBlocks; i++ {
			if target.Direct[i] == 0 {
				continue
			}
			if err := s.releaseBlock(target.Direct[i]); err != nil {
				return err
			}
			target.Direct[i] = 0
		}

		target.Size = newSize
		if err := inode.Write(s.device, result.InodeIndex, target); err != nil {
			return err
		}
		return s.sb.Store(s.device)
	})
}
