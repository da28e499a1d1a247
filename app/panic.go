package app

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// recoverPanic turns a panicking callback into a log entry and a fresh
// prompt; the shell keeps running.
func (s *system) recoverPanic(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if l := s.h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf("microshell panic: %v", r))
		for _, line := range strings.Split(string(debug.Stack()), "\n") {
			if line == "" {
				continue
			}
			l.WriteLineString(line)
		}
	}
	s.sh.ResetService()
	*err = nil
}
