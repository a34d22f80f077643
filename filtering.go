package main

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	hiddenPrefix  = "."
	reservedDir   = "@eaDir"
	sentinelName  = ".mksample.skip"
	containerExt  = ".zip"
	containerSep  = "!"
	unnamedMember = "unnamed"
)

type Classification int

const (
	Included Classification = iota
	ExcludedByPattern
	ExcludedNotIncluded
)

func (c Classification) String() string {
	switch c {
	case Included:
		return "included"
	case ExcludedByPattern:
		return "excluded"
	case ExcludedNotIncluded:
		return "not included"
	}
	return fmt.Sprintf("Classification(%d)", int(c))
}

// PatternError reports a pattern that is not a valid regular expression.
type PatternError struct {
	Option string
	Err    error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regular expression for %s: %v", e.Option, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// PatternFilter matches bare names (never paths) against the include and
// exclude patterns. A nil include matches everything, a nil exclude matches
// nothing.
type PatternFilter struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

func NewPatternFilter(include, exclude []string) (*PatternFilter, error) {
	inc, err := compilePatterns("--include", include)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns("--exclude", exclude)
	if err != nil {
		return nil, err
	}
	return &PatternFilter{include: inc, exclude: exc}, nil
}

// compilePatterns ORs the patterns into one expression anchored at both ends,
// so that it only matches a whole name.
func compilePatterns(option string, patterns []string) (*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	alts := make([]string, len(patterns))
	for i, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return nil, &PatternError{Option: option, Err: err}
		}
		alts[i] = "(?:" + p + ")"
	}
	re, err := regexp.Compile("^(?:" + strings.Join(alts, "|") + ")$")
	if err != nil {
		return nil, &PatternError{Option: option, Err: err}
	}
	return re, nil
}

func (f *PatternFilter) Classify(name string) Classification {
	if f.exclude != nil && f.exclude.MatchString(name) {
		return ExcludedByPattern
	}
	if f.include != nil && !f.include.MatchString(name) {
		return ExcludedNotIncluded
	}
	return Included
}

func isReservedName(name string) bool {
	return strings.HasPrefix(name, hiddenPrefix) || name == reservedDir
}

// SkipTraversal reports whether a directory or zip container should not be
// entered. Include patterns do not apply to containers of files.
func (f *PatternFilter) SkipTraversal(name string) bool {
	return isReservedName(name) || f.Classify(name) == ExcludedByPattern
}

// SkipFile reports whether a file or zip member is not a candidate.
func (f *PatternFilter) SkipFile(name string) bool {
	return isReservedName(name) || f.Classify(name) != Included
}

func isContainerName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), containerExt)
}
