//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// watchResize keeps the progress line width in step with the terminal.
func (p *Program) watchResize() {
	if !p.progress.tty {
		return
	}
	p.updateWidth()
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for range ch {
			p.updateWidth()
		}
	}()
}
