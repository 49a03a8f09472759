package main

import (
	"fmt"
	"strings"
)

// AmbiguousIDError indicates an id prefix matched more than one record.
type AmbiguousIDError struct {
	Prefix  string
	Matches []string
}

func (e AmbiguousIDError) Error() string {
	return fmt.Sprintf("id %q is ambiguous (matches %s)", e.Prefix, strings.Join(e.Matches, ", "))
}

// InvalidFlagError indicates a flag value outside its allowed set.
type InvalidFlagError struct {
	Flag  string
	Value string
	Valid []string
}

func (e InvalidFlagError) Error() string {
	return fmt.Sprintf("invalid --%s: %s (valid: %s)", e.Flag, e.Value, strings.Join(e.Valid, ", "))
}
