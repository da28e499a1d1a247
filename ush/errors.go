package ush

import "errors"

var (
	// ErrBufferTooSmall reports that a path or output string does not fit its destination.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrDirectoryNotFound reports a cd target that matches no mounted node.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrCommandNotFound reports a lookup that matched no file.
	ErrCommandNotFound = errors.New("command not found")
	// ErrNoHelpAvailable reports a help request for a file without help text.
	ErrNoHelpAvailable = errors.New("no help available")
	// ErrWrongArguments is returned by callbacks that reject their argv.
	ErrWrongArguments = errors.New("wrong arguments")
	// ErrDuplicateGlobalMount reports a second attempt to register the global node.
	ErrDuplicateGlobalMount = errors.New("global node already mounted")

	ErrDuplicateMount = errors.New("path already mounted")
	ErrInvalidMount   = errors.New("invalid mount point")
	ErrRegistryFull   = errors.New("mount registry full")
	ErrRegistrySealed = errors.New("mount registry sealed")
	ErrSyntax         = errors.New("syntax error")
)
