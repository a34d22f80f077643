package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

const maxCount = 2500

const description = `Produces a fair sample of a set of files.

Files are found by walking the given files and directories. Hidden files and
directories, @eaDir directories, and earlier samples (directories holding a
` + sentinelName + ` file) are never sampled. Patterns are regular
expressions matched against the whole simple name of a file; directories are
explored as long as they are not excluded.

The sample is written to the output directory in subdirectories of 25 files,
named "<index> <original name>". Files are hard linked when possible and
copied otherwise.`

type CLI struct {
	Paths  []string `arg:"" name:"filename" help:"Files or directories to sample from" required:""`
	Output string   `help:"Output directory; must not exist yet" required:"" placeholder:"outputdir"`
	DryRun bool     `name:"dryrun" help:"Print the files that would be added to the sample" aliases:"dry-run" short:"n"`

	Exclude []string `help:"Regular expression for names of files and directories to ignore; takes precedence over --include" placeholder:"pattern" sep:"none"`
	Include []string `help:"Regular expression for names of files to consider (default: all)" placeholder:"pattern" sep:"none"`

	Size    bool `help:"Weight each file by its size (default)" xor:"weight"`
	Uniform bool `help:"Give every file the same weight" xor:"weight"`
	Zip     bool `help:"Consider the files inside zip files; zips inside zips are not opened"`
	Count   int  `help:"Number of files in the sample (1-2500)" default:"2500" placeholder:"n"`

	Verbose int              `help:"Verbose output (0-2)" short:"v" type:"counter"`
	Version kong.VersionFlag `help:"Print version information and exit"`

	// Invocation is the command line, recorded in the output directory.
	Invocation string `kong:"-"`
}

type WeightMode int

const (
	WeightSize WeightMode = iota
	WeightUniform
)

func (m WeightMode) String() string {
	if m == WeightUniform {
		return "uniform"
	}
	return "size"
}

// Weighting is size unless --uniform was given.
func (c *CLI) Weighting() WeightMode {
	if c.Uniform {
		return WeightUniform
	}
	return WeightSize
}

func (c *CLI) AfterApply() error {
	if c.Size && c.Uniform {
		return fmt.Errorf("--size and --uniform are mutually exclusive")
	}
	if c.Count < 1 || c.Count > maxCount {
		return fmt.Errorf("--count must be between 1 and %d", maxCount)
	}
	if _, err := os.Lstat(c.Output); err == nil {
		return &DestinationExistsError{Path: c.Output}
	}
	return nil
}

// commandLine renders args the way a user could paste them back into a shell.
func commandLine(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = ShellQuote(a)
	}
	return strings.Join(quoted, " ")
}
