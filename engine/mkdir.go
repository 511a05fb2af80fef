package engine

import (
	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Mkdir creates an empty directory at path. The leaf must be absent and its
// parent must be a directory with a free entry slot.
//
// The inode and data block are only allocated after the parent's capacity
// has been confirmed, so a full parent (ErrDirectoryFull) never leaks an
// orphaned allocation -- this is the pre-check option for the allocation
// leak spec §7/§9 calls out as an open design choice.
func Mkdir(imagePath string, path string) error {
	return withImage(imagePath, func(s *session) error {
		result, err := s.resolve(path)
		if err != nil {
			return err
		}
		if result.Kind == resolver.Found {
			return vfserr.ErrExists.WithMessage(path)
		}

		parent, err := inode.Read(s.device, result.ParentIndex)
		if err != nil {
			return err
		}
		if !parent.IsDir() {
			return vfserr.ErrNotADirectory.WithMessage("parent of " + path)
		}

		// Double-check by scanning the parent block directly (spec §4.I):
		// Resolve already did this lookup, but the contract calls for an
		// explicit re-check before any allocation happens.
		if _, found, err := dirent.Find(s.device, parent.Direct[0], result.LeafName); err != nil {
			return err
		} else if found {
			return vfserr.ErrExists.WithMessage(path)
		}

		hasSlot, err := dirent.HasFreeSlot(s.device, parent.Direct[0])
		if err != nil {
			return err
		}
		if !hasSlot {
			return vfserr.ErrDirectoryFull.WithMessage("parent of " + path)
		}

		childIndex, err := s.allocateInode()
		if err != nil {
			return err
		}
		childBlock, err := s.allocateBlock()
		if err != nil {
			return err
		}
		if err := s.sb.Store(s.device); err != nil {
			return err
		}

		child := &inode.Inode{IsDirectory: 1, LinkCount: 1}
		child.Direct[0] = childBlock
		if err := inode.Write(s.device, childIndex, child); err != nil {
			return err
		}

		entries := []dirent.Entry{
			{Name: ".", InodeIndex: childIndex},
			{Name: "..", InodeIndex: result.ParentIndex},
			{}, {},
		}
		if err := dirent.WriteBlock(s.device, childBlock, entries); err != nil {
			return err
		}

		if err := dirent.Insert(s.device, parent.Direct[0], result.LeafName, childIndex); err != nil {
			return err
		}
		parent.Size += layout.DirentSize
		return inode.Write(s.device, result.ParentIndex, parent)
	})
}
