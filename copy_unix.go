//go:build !windows

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// copyFile is the fallback when a hard link is not possible. cp -p keeps
// mode and timestamps like the link would.
func copyFile(src, dst string) error {
	cmd := exec.Command("cp", "-p", src, dst)
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("cp failed: %s", bytes.TrimSpace(out))
	}
	return nil
}
