//go:build windows

package main

import (
	"os"
)

// copyFile is the fallback when a hard link is not possible.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return err
	}

	if _, err := writeStream(in, dst); err != nil {
		return err
	}

	return os.Chtimes(dst, stat.ModTime(), stat.ModTime())
}
