package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

type Progress struct {
	start         time.Time
	lastPrintTime time.Time
	current       string
	tty           bool
	drawn         bool
	termWidth     int
	mu            sync.Mutex
}

var actionColors = map[string]*color.Color{
	"link":    color.New(color.FgGreen),
	"copy":    color.New(color.FgYellow),
	"extract": color.New(color.FgCyan),
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *Program) logOp(action, rel string, c Candidate) {
	if p.cli.Verbose < 1 {
		return
	}
	label := fmt.Sprintf("%-8s", action)
	if col, ok := actionColors[action]; ok {
		label = col.Sprint(label)
	}
	p.printLog(fmt.Sprintf("%s %s <- %s", label, ShellQuote(rel), ShellQuote(c.Identifier())))
}

func (p *Program) logDebug(format string, a ...any) {
	if p.cli.Verbose >= 2 {
		p.printLog(fmt.Sprintf("DEBUG: "+format, a...))
	}
}

func (p *Program) printLog(msg string) {
	p.clearProgress()
	fmt.Fprintln(p.stderr, msg)
}

func (p *Program) clearProgress() {
	if p.progress.drawn {
		fmt.Fprint(p.stderr, "\r\033[K")
		p.progress.drawn = false
	}
}

func (p *Program) updateWidth() {
	w, _, err := term.GetSize(int(os.Stderr.Fd()))
	p.progress.mu.Lock()
	defer p.progress.mu.Unlock()
	if err != nil {
		p.progress.termWidth = 80
		return
	}
	p.progress.termWidth = w
}

// updateProgress notes the path being scanned and redraws the status line at
// most every 200ms.
func (p *Program) updateProgress(path string) {
	if p.cli.Verbose == 0 || !p.progress.tty {
		return
	}
	p.progress.current = path
	if time.Since(p.progress.lastPrintTime) > 200*time.Millisecond {
		p.printProgress()
	}
}

func (p *Program) printProgress() {
	elapsed := time.Since(p.progress.start).Seconds()

	var rate float64
	if elapsed > 0 {
		rate = float64(p.stats.FilesScanned) / elapsed
	}

	status := fmt.Sprintf(
		"[Files: %d, candidates: %d] | %.0f/s",
		p.stats.FilesScanned,
		p.stats.Candidates,
		rate,
	)

	p.progress.mu.Lock()
	termWidth := p.progress.termWidth
	p.progress.mu.Unlock()

	remaining := termWidth - len(status) - 4
	if remaining > 10 && p.progress.current != "" {
		status += " | " + truncateMiddle(p.progress.current, remaining)
	}

	// assume line is either empty or we are overwriting previous progress
	fmt.Fprint(p.stderr, "\r"+status+"\033[K")
	p.progress.drawn = true
	p.progress.lastPrintTime = time.Now()
}
