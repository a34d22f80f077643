package main

import (
	"path/filepath"
)

// visitedSet remembers what one walk has already produced. Directories are
// keyed by their symlink-resolved path so that a directory reachable through
// several routes (overlapping roots, symlink cycles) is only walked once.
// Root files are remembered so a directory walk does not emit them again.
type visitedSet struct {
	dirs      map[string]bool
	rootFiles map[string]bool
}

func newVisitedSet() *visitedSet {
	return &visitedSet{
		dirs:      make(map[string]bool),
		rootFiles: make(map[string]bool),
	}
}

// VisitDir marks dir as walked and reports whether it was new.
func (v *visitedSet) VisitDir(dir string) bool {
	key, err := filepath.EvalSymlinks(dir)
	if err != nil {
		key = filepath.Clean(dir)
	}
	if v.dirs[key] {
		return false
	}
	v.dirs[key] = true
	return true
}

func (v *visitedSet) AddRootFile(path string) {
	v.rootFiles[path] = true
}

func (v *visitedSet) IsRootFile(path string) bool {
	return v.rootFiles[path]
}
