package engine

import (
	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// CreateHardLink implements crhl: src must exist, dst must be absent, and
// dst's parent must be a directory with room for another entry. src's link
// count is incremented.
//
// The engine does not forbid linking a directory as src -- spec §9 notes
// this explicitly as a permitted hazard that can form cycles breaking Du's
// traversal, not something this operation guards against.
func CreateHardLink(imagePath string, src, dst string) error {
	return withImage(imagePath, func(s *session) error {
		srcResult, err := s.resolve(src)
		if err != nil {
			return err
		}
		if srcResult.Kind != resolver.Found {
			return vfserr.ErrNotFound.WithMessage(src)
		}

		dstResult, err := s.resolve(dst)
		if err != nil {
			return err
		}
		if dstResult.Kind != resolver.Absent {
			return vfserr.ErrExists.WithMessage(dst)
		}

		dstParent, err := inode.Read(s.device, dstResult.ParentIndex)
		if err != nil {
			return err
		}
		if !dstParent.IsDir() {
			return vfserr.ErrNotADirectory.WithMessage("parent of " + dst)
		}

		if err := dirent.Insert(s.device, dstParent.Direct[0], dstResult.LeafName, srcResult.InodeIndex); err != nil {
			return err
		}
		dstParent.Size += layout.DirentSize
		if err := inode.Write(s.device, dstResult.ParentIndex, dstParent); err != nil {
			return err
		}

		srcInode, err := inode.Read(s.device, srcResult.InodeIndex)
		if err != nil {
			return err
		}
		srcInode.LinkCount++
		return inode.Write(s.device, srcResult.InodeIndex, srcInode)
	})
}

// Remove implements rm: path must exist and not be a directory. Its
// directory entry is cleared, its link count decremented, and -- if that
// drops it to zero -- its data blocks and the inode itself are released.
func Remove(imagePath string, path string) error {
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
	})
}
