package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const shardWidth = 25

// linkFile is os.Link; tests replace it to force the copy fallback.
var linkFile = os.Link

// DestinationExistsError is returned when the output directory is already
// there; samples are never merged into an existing directory.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("output directory already exists: %s", e.Path)
}

// OutputSlot is where the i-th selected file goes.
type OutputSlot struct {
	Shard int
	Index int
	Name  string
}

func slotFor(i int, c Candidate) OutputSlot {
	return OutputSlot{
		Shard: i / shardWidth,
		Index: i,
		Name:  sanitizeName(c.Basename()),
	}
}

func (s OutputSlot) Dir() string {
	return fmt.Sprintf("%02d", s.Shard)
}

func (s OutputSlot) FileName() string {
	return fmt.Sprintf("%04d %s", s.Index, s.Name)
}

var unsafeNameChars = strings.NewReplacer(
	"\x00", "_",
	"/", "_",
	"\\", "_",
	"\n", "_",
	"\r", "_",
)

func sanitizeName(base string) string {
	return unsafeNameChars.Replace(base)
}

// produceSample writes the selection below dest, or lists it on stdout when
// dryRun is set. record is stored in the sentinel file.
func (p *Program) produceSample(selection []Candidate, dest string, dryRun bool, record string) error {
	if _, err := os.Lstat(dest); err == nil {
		return &DestinationExistsError{Path: dest}
	}

	if dryRun {
		for _, c := range selection {
			fmt.Fprintln(p.stdout, c.Identifier())
		}
		return nil
	}

	if err := createDestination(dest, record); err != nil {
		return err
	}

	cache := newContainerCache()
	defer cache.Close()

	for i, c := range selection {
		slot := slotFor(i, c)
		dir := filepath.Join(dest, slot.Dir())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		target := filepath.Join(dir, slot.FileName())
		action, err := p.writeSlot(c, target, cache)
		if err != nil {
			return fmt.Errorf("%s: %w", ShellQuote(c.Identifier()), err)
		}
		p.logOp(action, filepath.Join(slot.Dir(), slot.FileName()), c)
	}
	return nil
}

// createDestination creates dest and immediately marks it with the sentinel
// so that later walks skip it even if this run is interrupted.
func createDestination(dest, record string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.Mkdir(dest, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &DestinationExistsError{Path: dest}
		}
		return fmt.Errorf("create output: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dest, sentinelName), []byte(record+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", sentinelName, err)
	}
	return nil
}

// writeSlot puts c at target and returns what it did: extract, link or copy.
func (p *Program) writeSlot(c Candidate, target string, cache *containerCache) (string, error) {
	if c.InContainer() {
		src, err := cache.OpenMember(c.Path, c.Member)
		if err != nil {
			return "", fmt.Errorf("extract: %w", err)
		}
		defer src.Close()
		n, err := writeStream(src, target)
		if err != nil {
			return "", fmt.Errorf("extract: %w", err)
		}
		p.stats.Extracted++
		p.stats.BytesCopied += n
		return "extract", nil
	}

	// os.Link does not follow symlinks, so link to what the symlink names.
	src := c.Path
	if resolved, err := filepath.EvalSymlinks(src); err == nil {
		src = resolved
	}
	err := linkFile(src, target)
	if err == nil {
		p.stats.Linked++
		return "link", nil
	}
	p.logDebug("link %s failed, copying: %v", ShellQuote(src), err)

	if err := copyFile(src, target); err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	p.stats.Copied++
	if info, err := os.Stat(target); err == nil {
		p.stats.BytesCopied += info.Size()
	}
	return "copy", nil
}

// writeStream copies r into a new file at dst.
func writeStream(r io.Reader, dst string) (int64, error) {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return n, err
	}
	return n, nil
}
