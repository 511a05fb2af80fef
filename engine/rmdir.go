package engine

import (
	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// Rmdir removes an empty directory at path. The root is never a legal
// target: its resolve reports Found with Root set, and Rmdir rejects that
// as "not found" before touching any block, since the root has no entry in
// any parent block (spec §4.I).
func Rmdir(imagePath string, path string) error {
	return withImage(imagePath, func(s *session) error {
		result, err := s.resolve(path)
		if err != nil {
			return err
		}
		if result.Kind != resolver.Found || result.Root {
			return vfserr.ErrNotFound.WithMessage(path)
		}

		target, err := inode.Read(s.device, result.InodeIndex)
		if err != nil {
			return err
		}
		if !target.IsDir() {
			return vfserr.ErrNotADirectory.WithMessage(path)
		}

		liveEntries, err := liveEntriesExcludingDots(s.device, target.Direct[0])
		if err != nil {
			return err
		}
		if liveEntries > 0 {
			return vfserr.ErrDirectoryNotEmpty.WithMessage(path)
		}

		parent, err := inode.Read(s.device, result.ParentIndex)
		if err != nil {
			return err
		}
		if err := s.removeFromParent(result.ParentIndex, parent, result.InodeIndex, result.LeafName); err != nil {
			return err
		}

		if err := s.releaseBlock(target.Direct[0]); err != nil {
			return err
		}
		if err := s.releaseInode(result.InodeIndex); err != nil {
			return err
		}
		return s.sb.Store(s.device)
	})
}

// liveEntriesExcludingDots counts entries in blockIndex other than "." and
// "..", so a freshly made directory (or the root, which has neither) reads
// as empty.
func liveEntriesExcludingDots(device *blockdev.Device, blockIndex uint32) (int, error) {
	entries, err := dirent.ReadBlock(device, blockIndex)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range entries {
		if e.Free() || e.Name == "." || e.Name == ".." {
			continue
		}
		count++
	}
	return count, nil
}
