// Package engine implements component I: the thirteen operations a single
// invocation of the command-line tool can perform. Every exported function
// opens the image, does exactly one operation, and closes it again -- there
// is no long-running process and no cache beyond the call, per spec §1.
package engine

import (
	"os"

	"github.com/piolad/virtual-filesystem/bitmap"
	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/superblock"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// session bundles the open device and its loaded superblock for the
// duration of one operation.
type session struct {
	device *blockdev.Device
	sb     *superblock.Superblock
}

// withImage opens imagePath read/write, loads the superblock, runs fn, and
// always closes the device afterward -- including on error, per spec §5.
func withImage(imagePath string, fn func(*session) error) error {
	file, err := os.OpenFile(imagePath, os.O_RDWR, 0o644)
	if err != nil {
		return vfserr.ErrIOFailed.Wrap(err)
	}
	device := blockdev.New(file)
	defer device.Close()

	sb, err := superblock.Load(device)
	if err != nil {
		return err
	}

	return fn(&session{device: device, sb: sb})
}

func blockBitmapOffset() int64 { return layout.BlockBitmapOffset }
func inodeBitmapOffset() int64 { return layout.InodeBitmapOffset }

// allocateBlock allocates one free data block and decrements the
// superblock's free block count. It does not persist the superblock; the
// caller does that once, at the end of the operation.
func (s *session) allocateBlock() (uint32, error) {
	index, err := bitmap.Allocate(s.device, blockBitmapOffset(), s.sb.TotalBlockCount, vfserr.ErrNoSpace)
	if err != nil {
		return 0, err
	}
	s.sb.FreeBlockCount--
	return index, nil
}

// releaseBlock frees a data block and increments the free block count.
func (s *session) releaseBlock(index uint32) error {
	if err := bitmap.Release(s.device, blockBitmapOffset(), index); err != nil {
		return err
	}
	s.sb.FreeBlockCount++
	return nil
}

// allocateInode allocates one free inode and decrements the free inode
// count.
func (s *session) allocateInode() (uint32, error) {
	index, err := bitmap.Allocate(s.device, inodeBitmapOffset(), s.sb.TotalInodeCount, vfserr.ErrNoInodes)
	if err != nil {
		return 0, err
	}
	s.sb.FreeInodeCount--
	return index, nil
}

// releaseInode frees an inode and increments the free inode count.
func (s *session) releaseInode(index uint32) error {
	if err := bitmap.Release(s.device, inodeBitmapOffset(), index); err != nil {
		return err
	}
	s.sb.FreeInodeCount++
	return nil
}

// resolve wraps resolver.Resolve, translating BadPath into a concrete
// error so every operation doesn't have to.
func (s *session) resolve(path string) (resolver.Result, error) {
	result, err := resolver.Resolve(s.device, path)
	if err != nil {
		return resolver.Result{}, err
	}
	if result.Kind == resolver.BadPath {
		return resolver.Result{}, vfserr.ErrNotFound.WithMessage(path)
	}
	return result, nil
}

// freeDataBlocks releases every direct block index in [0, count) that ino
// currently points to, and zeroes the corresponding slots in ino.
func (s *session) freeDataBlocks(ino *inode.Inode, count uint32) error {
	for i := uint32(0); i < count; i++ {
		blk := ino.Direct[i]
		if blk == 0 {
			continue
		}
		if err := s.releaseBlock(blk); err != nil {
			return err
		}
		ino.Direct[i] = 0
	}
	return nil
}

// unlinkInode drops one link from ino. If the link count reaches zero, all
// of its data blocks and the inode itself are released; otherwise the
// decremented inode is persisted. Either way the caller still needs to
// persist the superblock.
func (s *session) unlinkInode(index uint32, ino *inode.Inode) error {
	ino.LinkCount--
	if ino.LinkCount > 0 {
		return inode.Write(s.device, index, ino)
	}

	if err := s.freeDataBlocks(ino, ino.BlocksInUse()); err != nil {
		return err
	}
	return s.releaseInode(index)
}

// removeFromParent clears the (inodeIndex, name) slot in parent's directory
// block and persists the parent inode with its decremented size.
func (s *session) removeFromParent(parentIndex uint32, parent *inode.Inode, inodeIndex uint32, name string) error {
	removed, err := dirent.Remove(s.device, parent.Direct[0], inodeIndex, name)
	if err != nil {
		return err
	}
	if !removed {
		return vfserr.ErrNotFound.WithMessage("directory entry not found in parent")
	}
	parent.Size -= layout.DirentSize
	return inode.Write(s.device, parentIndex, parent)
}
