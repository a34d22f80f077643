package main

import (
	"os"
	"path"
	"path/filepath"
)

// FileNode is a path on the walker's work stack. Its info follows symlinks
// and is loaded at most once.
type FileNode struct {
	Path string

	info       os.FileInfo
	infoErr    error
	infoLoaded bool
}

func (n *FileNode) GetInfo() (os.FileInfo, error) {
	if n.infoLoaded {
		return n.info, n.infoErr
	}
	n.info, n.infoErr = os.Stat(n.Path)
	n.infoLoaded = true
	return n.info, n.infoErr
}

func (n *FileNode) Name() string {
	return filepath.Base(n.Path)
}

// Candidate is a file eligible for the sample. Member is the path inside the
// zip at Path, or empty for a plain file.
type Candidate struct {
	Weight int64
	Path   string
	Member string
}

func (c Candidate) InContainer() bool {
	return c.Member != ""
}

func (c Candidate) Identifier() string {
	if c.Member == "" {
		return c.Path
	}
	return c.Path + containerSep + c.Member
}

// Basename is the last path component of the file, or of the member for
// container members.
func (c Candidate) Basename() string {
	var base string
	if c.InContainer() {
		base = path.Base(c.Member)
	} else {
		base = filepath.Base(c.Path)
	}
	if base == "" || base == "." || base == "/" || base == string(filepath.Separator) {
		return unnamedMember
	}
	return base
}

// weightFor returns the weight of a file of the given size and whether it is
// eligible at all.
func weightFor(size int64, bySize bool) (int64, bool) {
	if !bySize {
		return 1, true
	}
	if size < 0 {
		size = 0
	}
	return size, size > 0
}
