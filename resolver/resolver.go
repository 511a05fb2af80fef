// Package resolver implements component G: translating an absolute path
// into a filesystem location.
//
// The original engine (and the spec it was distilled from) signals
// "not found" by returning the parent's inode index instead of the child's,
// relying on callers to compare the result against the parent index. Spec §9
// calls this sentinel convention out as a wart and recommends a tagged
// result instead; that is what Result below provides. Every caller in this
// module switches on Result.Kind rather than comparing indices.
package resolver

import (
	"strings"

	"github.com/piolad/virtual-filesystem/blockdev"
	"github.com/piolad/virtual-filesystem/dirent"
	"github.com/piolad/virtual-filesystem/inode"
	"github.com/piolad/virtual-filesystem/layout"
)

// Kind tags what a resolve attempt found.
type Kind int

const (
	// BadPath: the path is empty or does not start with "/".
	BadPath Kind = iota
	// Found: the full path resolves to an existing object.
	Found
	// Absent: every component but the last exists and is a directory; the
	// last component is not present in its parent.
	Absent
)

// Result is the outcome of resolving a path.
type Result struct {
	Kind Kind

	// Root is true when the resolved path is exactly "/". ParentIndex and
	// InodeIndex are both 0 (root) in that case; LeafName is "/".
	Root bool

	// ParentIndex is the inode index of the directory that contains (or
	// should contain) the leaf. Valid for Found and Absent.
	ParentIndex uint32
	// LeafName is the final path component, truncated to
	// layout.MaxFileNameLength-1 bytes. Valid for Found and Absent.
	LeafName string
	// InodeIndex is the resolved object's inode index. Valid only when
	// Kind == Found.
	InodeIndex uint32
}

// Resolve walks path from the root inode (index layout.RootInodeIndex),
// following spec §4.G's protocol: reject non-absolute paths; treat "/" as
// the root itself; for every non-final component, require it to be present
// and a directory; for the final component, report Found or Absent without
// requiring it to exist.
func Resolve(device *blockdev.Device, path string) (Result, error) {
	if path == "" || path[0] != '/' {
		return Result{Kind: BadPath}, nil
	}
	if path == "/" {
		return Result{Kind: Found, Root: true, ParentIndex: layout.RootInodeIndex, LeafName: "/", InodeIndex: layout.RootInodeIndex}, nil
	}

	components := splitPath(path)

	currentIndex := uint32(layout.RootInodeIndex)
	current, err := inode.Read(device, currentIndex)
	if err != nil {
		return Result{}, err
	}

	for i, component := range components {
		last := i == len(components)-1

		entry, found, err := dirent.Find(device, current.Direct[0], component)
		if err != nil {
			return Result{}, err
		}

		if !last {
			if !found {
				return Result{Kind: BadPath}, nil
			}
			child, err := inode.Read(device, entry.InodeIndex)
			if err != nil {
				return Result{}, err
			}
			if !child.IsDir() {
				return Result{Kind: BadPath}, nil
			}
			currentIndex = entry.InodeIndex
			current = child
			continue
		}

		leaf := truncateName(component)
		if found {
			return Result{Kind: Found, ParentIndex: currentIndex, LeafName: leaf, InodeIndex: entry.InodeIndex}, nil
		}
		return Result{Kind: Absent, ParentIndex: currentIndex, LeafName: leaf}, nil
	}

	// Only reached when path has no non-empty component (e.g. "//").
	return Result{Kind: BadPath}, nil
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	components := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			components = append(components, p)
		}
	}
	return components
}

func truncateName(name string) string {
	if len(name) > layout.MaxFileNameLength-1 {
		return name[:layout.MaxFileNameLength-1]
	}
	return name
}
