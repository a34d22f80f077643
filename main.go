package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

var version = "dev"

var ErrNoCandidates = errors.New("no candidates found")

type Program struct {
	cli      *CLI
	filter   *PatternFilter
	rng      *rand.Rand
	stats    Stats
	progress Progress
	stdout   io.Writer
	stderr   io.Writer
}

// NewProgram compiles the patterns of cli. rng drives every random draw of
// the run, both the sampling keys and the final shuffle.
func NewProgram(cli *CLI, rng *rand.Rand) (*Program, error) {
	filter, err := NewPatternFilter(cli.Include, cli.Exclude)
	if err != nil {
		return nil, err
	}
	p := &Program{
		cli:    cli,
		filter: filter,
		rng:    rng,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	p.progress.start = time.Now()
	p.progress.termWidth = 80
	p.progress.tty = cli.Verbose > 0 && stderrIsTerminal()
	p.watchResize()

	return p, nil
}

// parseCLI parses args, the command line without the program name. Without
// any arguments the help is shown.
func parseCLI(args []string, opts ...kong.Option) (*CLI, *kong.Kong, error) {
	if len(args) == 0 {
		args = []string{"--help"}
	}

	cli := &CLI{}
	opts = append([]kong.Option{
		kong.Name("mksample"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	}, opts...)
	parser, err := kong.New(cli, opts...)
	if err != nil {
		return nil, nil, err
	}
	_, err = parser.Parse(args)
	return cli, parser, err
}

func main() {
	cli, parser, err := parseCLI(os.Args[1:])
	if parser == nil {
		fatal(err)
	}
	parser.FatalIfErrorf(err)
	cli.Invocation = commandLine(os.Args)

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	p, err := NewProgram(cli, rng)
	if err != nil {
		fatal(err)
	}
	if err := p.Run(); err != nil {
		fatal(err)
	}
}

// Run walks the roots, samples the candidates and writes (or lists) the
// sample.
func (p *Program) Run() error {
	candidates, err := p.collectCandidates(p.cli.Paths)
	if err != nil {
		return err
	}

	selection := sampleCandidates(candidates, p.cli.Count, p.bySize(), p.rng)
	p.stats.Selected = int64(len(selection))
	if len(selection) == 0 {
		return ErrNoCandidates
	}
	p.logDebug("selected %d of %d candidates (%s weighting)", len(selection), p.stats.Candidates, p.cli.Weighting())

	if err := p.produceSample(selection, p.cli.Output, p.cli.DryRun, p.cli.Invocation); err != nil {
		return err
	}

	if p.cli.Verbose > 0 {
		p.stats.Print(p.stderr)
	}
	return nil
}

func fatal(err error) {
	prefix := color.New(color.FgRed, color.Bold).Sprint("mksample:")
	fmt.Fprintf(os.Stderr, "%s %v\n", prefix, err)
	os.Exit(1)
}
