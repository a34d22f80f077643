package main

import (
	"fmt"
	"regexp"
	"strings"
)

var safeChars = regexp.MustCompile(`^[a-zA-Z0-9@%_+=:,./-]+$`)

func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if safeChars.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

func truncateMiddle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 3 {
		return s[:max]
	}
	half := (max - 1) / 2
	return s[:half] + "…" + s[len(s)-half:]
}

func bytes2human(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n >= unit*div && exp < 5 {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
