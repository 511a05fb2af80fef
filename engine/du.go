package engine

import (
	"strings"

	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// DuEntry is one line of Du's pre-order report: the cumulative byte count
// rooted at path.
type DuEntry struct {
	Path  string
	Bytes uint32
}

// Du recursively reports (cumulative bytes, path) in pre-order starting at
// the resolved target, skipping "." and "..". A file's figure is
// ceil(size/BlockSize)*BlockSize; a directory's is BlockSize plus the sum of
// its children's figures, since a directory always accounts for its own one
// data block (spec §4.I).
//
// Hard-linking directories is permitted by this engine (spec §9), so a
// cyclic link graph will recurse forever here -- a known, accepted hazard,
// not a bug this traversal guards against.
func Du(imagePath string, path string) ([]DuEntry, error) {
	var entries []DuEntry
	err := withImage(imagePath, func(s *session) error {
		resolved, err := s.resolve(path)
		if err != nil {
			return err
		}
		if resolved.Kind != resolver.Found {
			return vfserr.ErrNotFound.WithMessage(path)
		}

		target, err := inode.Read(s.device, resolved.InodeIndex)
		if err != nil {
			return err
		}

		// cumulativeBytes computes a node's total bottom-up without emitting
		// anything, so walk can know a directory's total before printing
		// its pre-order line.
		var cumulativeBytes func(ino *inode.Inode) (uint32, error)
		cumulativeBytes = func(ino *inode.Inode) (uint32, error) {
			if !ino.IsDir() {
				return ino.BlocksInUse() * layout.BlockSize, nil
			}

			total := uint32(layout.BlockSize)
			children, err := dirent.ReadBlock(s.device, ino.Direct[0])
			if err != nil {
				return 0, err
			}
			for _, e := range children {
				if e.Free() || e.Name == "." || e.Name == ".." {
					continue
				}
				childInode, err := inode.Read(s.device, e.InodeIndex)
				if err != nil {
					return 0, err
				}
				childBytes, err := cumulativeBytes(childInode)
				if err != nil {
					return 0, err
				}
				total += childBytes
			}
			return total, nil
		}

		var walk func(name string, ino *inode.Inode) error
		walk = func(name string, ino *inode.Inode) error {
			total, err := cumulativeBytes(ino)
			if err != nil {
				return err
			}
			entries = append(entries, DuEntry{Path: name, Bytes: total})

			if !ino.IsDir() {
				return nil
			}
			children, err := dirent.ReadBlock(s.device, ino.Direct[0])
			if err != nil {
				return err
			}
			for _, e := range children {
				if e.Free() || e.Name == "." || e.Name == ".." {
					continue
				}
				childInode, err := inode.Read(s.device, e.InodeIndex)
				if err != nil {
					return err
				}
				if err := walk(joinPath(name, e.Name), childInode); err != nil {
					return err
				}
			}
			return nil
		}

		return walk(path, target)
	})
	return entries, err
}

// Lsdf reports the total cumulative usage, in bytes, rooted at path.
func Lsdf(imagePath string, path string) (uint32, error) {
	entries, err := Du(imagePath, path)
	if err != nil {
		return 0, err
	}
	// Du's first entry (pre-order root) always carries the total for the
	// whole subtree.
	return entries[0].Bytes, nil
}

func joinPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return strings.TrimRight(parent, "/") + "/" + name
}
