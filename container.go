package main

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// openContainer opens a zip for reading. Archives with non-local member
// names are still readable; only the member basenames are ever used.
func openContainer(name string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(name)
	if err != nil {
		if r != nil && errors.Is(err, zip.ErrInsecurePath) {
			return r, nil
		}
		return nil, err
	}
	return r, nil
}

func memberName(f *zip.File) string {
	return strings.TrimRight(f.Name, "/")
}

// walkContainer emits the top level file members of the zip at zipPath.
// Nested zips are plain members and are never opened.
func (p *Program) walkContainer(zipPath string, yield func(Candidate) bool) bool {
	r, err := openContainer(zipPath)
	if err != nil {
		p.logDebug("cannot read zip %s: %v", ShellQuote(zipPath), err)
		p.stats.ContainerErrors++
		return true
	}
	defer r.Close()
	p.stats.ContainersScanned++

	members := make(map[string]bool, len(r.File))
	for _, f := range r.File {
		member := memberName(f)
		if member == "" || f.FileInfo().IsDir() || members[member] {
			continue
		}
		members[member] = true
		p.stats.FilesScanned++

		if p.filter.SkipFile(path.Base(member)) {
			p.stats.FilesSkipped++
			continue
		}
		// sizes beyond int64 wrap negative and are clamped to zero
		weight, ok := weightFor(int64(f.UncompressedSize64), p.bySize())
		if !ok {
			p.stats.FilesSkipped++
			continue
		}
		if !p.emit(Candidate{Weight: weight, Path: zipPath, Member: member}, yield) {
			return false
		}
	}
	return true
}

// containerCache keeps zips open while their members are extracted.
type containerCache struct {
	open map[string]*zip.ReadCloser
}

func newContainerCache() *containerCache {
	return &containerCache{open: make(map[string]*zip.ReadCloser)}
}

func (cc *containerCache) OpenMember(zipPath, member string) (io.ReadCloser, error) {
	r, ok := cc.open[zipPath]
	if !ok {
		var err error
		r, err = openContainer(zipPath)
		if err != nil {
			return nil, err
		}
		cc.open[zipPath] = r
	}
	for _, f := range r.File {
		if memberName(f) == member && !f.FileInfo().IsDir() {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%s: no member %q", zipPath, member)
}

func (cc *containerCache) Close() error {
	var errs []error
	for name, r := range cc.open {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(cc.open, name)
	}
	return errors.Join(errs...)
}
