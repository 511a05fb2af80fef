package engine

import (
	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/resolver"
	"github.com/piolad/virtual-filesystem/vfserr"
)

// DirListingEntry is one named child reported by Ls for a directory target.
type DirListingEntry struct {
	Name  string
	Size  uint32
	IsDir bool
}

// LsResult is the outcome of listing path. If IsDir is false, Entries is
// empty and Size is the file's byte length; otherwise Entries holds every
// live child ("." and ".." are only present for non-root directories, per
// spec §4.H's root asymmetry) and Size is meaningless.
type LsResult struct {
	IsDir   bool
	Size    uint32
	Entries []DirListingEntry
}

// Ls reports on the object at path: its size if it's a regular file, or its
// children if it's a directory.
func Ls(imagePath string, path string) (LsResult, error) {
	var result LsResult
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

		if !target.IsDir() {
			result = LsResult{IsDir: false, Size: target.Size}
			return nil
		}

		entries, err := dirent.ReadBlock(s.device, target.Direct[0])
		if err != nil {
			return err
		}

		listing := make([]DirListingEntry, 0, len(entries))
		for _, e := range entries {
			if e.Free() {
				continue
			}
			childInode, err := inode.Read(s.device, e.InodeIndex)
			if err != nil {
				return err
			}
			listing = append(listing, DirListingEntry{
				Name:  e.Name,
				Size:  childInode.Size,
				IsDir: childInode.IsDir(),
			})
		}
		result = LsResult{IsDir: true, Entries: listing}
		return nil
	})
	return result, err
}
