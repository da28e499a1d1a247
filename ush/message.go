package ush

import "errors"

var messages = []struct {
	err  error
	text []byte
}{
	{ErrBufferTooSmall, []byte("error: buffer too small\r\n")},
	{ErrDirectoryNotFound, []byte("error: directory not found\r\n")},
	{ErrCommandNotFound, []byte("error: command not found\r\n")},
	{ErrNoHelpAvailable, []byte("error: no help available\r\n")},
	{ErrWrongArguments, []byte("error: wrong arguments\r\n")},
	{ErrSyntax, []byte("error: syntax error\r\n")},
	{ErrDuplicateGlobalMount, []byte("error: global node already mounted\r\n")},
	{ErrDuplicateMount, []byte("error: path already mounted\r\n")},
	{ErrInvalidMount, []byte("error: invalid mount point\r\n")},
	{ErrRegistryFull, []byte("error: mount registry full\r\n")},
	{ErrRegistrySealed, []byte("error: mount registry sealed\r\n")},
}

// msgFailed stands in for an error whose text does not fit the output
// buffer.
var msgFailed = []byte("error: command failed\r\n")

// Message returns the line the service loop prints for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if m := staticMessage(err); m != nil {
		return string(m)
	}
	return "error: " + err.Error() + "\r\n"
}

func staticMessage(err error) []byte {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	return nil
}

// messageBytes returns the line for err without allocating: known errors
// map to static text, others are formatted into out.
func messageBytes(err error, out *Buffer) []byte {
	if m := staticMessage(err); m != nil {
		return m
	}
	out.Reset()
	if writeAll(out, "error: ", err.Error(), "\r\n") != nil {
		return msgFailed
	}
	return out.Bytes()
}
