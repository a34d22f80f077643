package main

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// MissingRootsError lists every root path that does not exist.
type MissingRootsError struct {
	Paths []string
}

func (e *MissingRootsError) Error() string {
	return fmt.Sprintf("no such file or directory: %s", strings.Join(e.Paths, ", "))
}

type walkEntry struct {
	node *FileNode
	root bool
}

// collectCandidates checks that every root exists and returns the lazy stream
// of candidates found under them. The stream is unordered and is meant to be
// ranged over once.
func (p *Program) collectCandidates(roots []string) (iter.Seq[Candidate], error) {
	var missing []string
	paths := make([]string, 0, len(roots))
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			missing = append(missing, root)
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			abs = filepath.Clean(root)
		}
		paths = append(paths, abs)
	}
	if len(missing) > 0 {
		return nil, &MissingRootsError{Paths: missing}
	}

	return func(yield func(Candidate) bool) {
		p.walk(paths, yield)
	}, nil
}

func (p *Program) walk(roots []string, yield func(Candidate) bool) {
	visited := newVisitedSet()

	var entries []walkEntry
	seen := make(map[string]bool, len(roots))
	for _, root := range roots {
		if seen[root] {
			continue
		}
		seen[root] = true
		node := &FileNode{Path: root}
		if info, err := node.GetInfo(); err == nil && !info.IsDir() {
			visited.AddRootFile(root)
		}
		entries = append(entries, walkEntry{node: node, root: true})
	}

	// Roots are pushed in reverse so they are popped in the order given.
	stack := make([]walkEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		stack = append(stack, entries[i])
	}

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !e.root && visited.IsRootFile(e.node.Path) {
			continue
		}
		if !p.visit(e.node, visited, &stack, yield) {
			return
		}
	}
	p.clearProgress()
}

// visit handles one path and reports false once the consumer stops.
func (p *Program) visit(node *FileNode, visited *visitedSet, stack *[]walkEntry, yield func(Candidate) bool) bool {
	info, err := node.GetInfo()
	if err != nil {
		// broken symlink or a file that vanished
		p.logDebug("ignoring %s: %v", ShellQuote(node.Path), err)
		return true
	}
	name := node.Name()
	p.updateProgress(node.Path)

	switch {
	case info.IsDir():
		p.walkDir(node, visited, stack)
		return true

	case p.cli.Zip && isContainerName(name) && info.Mode().IsRegular():
		if p.filter.SkipTraversal(name) {
			p.stats.FilesSkipped++
			return true
		}
		return p.walkContainer(node.Path, yield)

	case info.Mode().IsRegular():
		p.stats.FilesScanned++
		if p.filter.SkipFile(name) {
			p.stats.FilesSkipped++
			return true
		}
		weight, ok := weightFor(info.Size(), p.bySize())
		if !ok {
			p.stats.FilesSkipped++
			return true
		}
		return p.emit(Candidate{Weight: weight, Path: node.Path}, yield)
	}

	p.logDebug("ignoring %s: not a regular file", ShellQuote(node.Path))
	return true
}

func (p *Program) walkDir(node *FileNode, visited *visitedSet, stack *[]walkEntry) {
	if p.filter.SkipTraversal(node.Name()) {
		p.logDebug("skipping directory %s", ShellQuote(node.Path))
		p.stats.DirsSkipped++
		return
	}
	if hasSentinel(node.Path) {
		p.logDebug("skipping earlier sample %s", ShellQuote(node.Path))
		p.stats.DirsSkipped++
		return
	}
	if !visited.VisitDir(node.Path) {
		return
	}

	entries, err := os.ReadDir(node.Path)
	if err != nil {
		p.logDebug("cannot read %s: %v", ShellQuote(node.Path), err)
		p.stats.Errors++
		return
	}
	p.stats.DirsScanned++
	for i := len(entries) - 1; i >= 0; i-- {
		*stack = append(*stack, walkEntry{node: &FileNode{Path: filepath.Join(node.Path, entries[i].Name())}})
	}
}

func hasSentinel(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, sentinelName))
	return err == nil && info.Mode().IsRegular()
}

func (p *Program) emit(c Candidate, yield func(Candidate) bool) bool {
	p.stats.Candidates++
	return yield(c)
}

func (p *Program) bySize() bool {
	return p.cli.Weighting() == WeightSize
}
