//go:build windows

package main

import (
	"time"
)

// watchResize polls the console width; Windows has no SIGWINCH.
func (p *Program) watchResize() {
	if !p.progress.tty {
		return
	}
	p.updateWidth()
	go func() {
		ticker := time.NewTicker(800 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			p.updateWidth()
		}
	}()
}
