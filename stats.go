package main

import (
	"fmt"
	"io"
)

// Stats counts what one run looked at and wrote. Only the main goroutine
// touches it.
type Stats struct {
	DirsScanned       int64
	DirsSkipped       int64
	FilesScanned      int64
	FilesSkipped      int64
	ContainersScanned int64
	ContainerErrors   int64
	Candidates        int64
	Selected          int64
	Linked            int64
	Copied            int64
	Extracted         int64
	BytesCopied       int64
	Errors            int64
}

func (s *Stats) Print(w io.Writer) {
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  %d %s scanned in %d %s\n",
		s.FilesScanned, plural(s.FilesScanned, "file", "files"),
		s.DirsScanned, plural(s.DirsScanned, "folder", "folders"))
	if s.DirsSkipped > 0 {
		fmt.Fprintf(w, "  %d %s skipped\n", s.DirsSkipped, plural(s.DirsSkipped, "folder", "folders"))
	}
	if s.ContainersScanned > 0 || s.ContainerErrors > 0 {
		fmt.Fprintf(w, "  %d zip %s read", s.ContainersScanned, plural(s.ContainersScanned, "file", "files"))
		if s.ContainerErrors > 0 {
			fmt.Fprintf(w, ", %d unreadable", s.ContainerErrors)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %d %s, %d selected\n", s.Candidates, plural(s.Candidates, "candidate", "candidates"), s.Selected)
	if s.Linked+s.Copied+s.Extracted > 0 {
		fmt.Fprintf(w, "  %d linked, %d copied, %d extracted (%s written)\n",
			s.Linked, s.Copied, s.Extracted, bytes2human(s.BytesCopied))
	}
	if s.Errors > 0 {
		fmt.Fprintf(w, "  %d unreadable %s\n", s.Errors, plural(s.Errors, "folder", "folders"))
	}
}
