package ush

import (
	"fmt"

	"github.com/google/shlex"
)

// SplitArgs splits a command line into argv, honouring quotes and
// backslash escapes.
func SplitArgs(line string) ([]string, error) {
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return argv, nil
}
