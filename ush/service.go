package ush

// IO is the character transport of a shell.
//
// ReadChar never blocks: ok is false when no byte is waiting. WriteChar
// returns false when the transport cannot take the byte right now; the
// service loop retries it on a later call.
type IO interface {
	ReadChar() (c byte, ok bool)
	WriteChar(c byte) bool
}

type serviceState uint8

const (
	stateReset serviceState = iota
	stateWrite
	stateRead
	stateExec
)

type escState uint8

const (
	escNone escState = iota
	escStart
	escCSI
)

type service struct {
	io    IO
	state serviceState

	line   *Buffer
	prompt *Buffer

	pending []byte
	pos     int
	after   serviceState

	esc    escState
	lastCR bool
	echo   [1]byte
}

func (sv *service) init(cfg Config) {
	sv.io = cfg.IO
	sv.line = NewBuffer(cfg.InputBufferSize)
	sv.prompt = NewBuffer(cfg.PathMax + len(cfg.Hostname) + len(promptPrefix) + len(promptSuffix) + 2)
}

const (
	promptPrefix = "\x1b[1;32m["
	promptSuffix = "]$ \x1b[0m"
)

var (
	echoNewline   = []byte("\r\n")
	echoErase     = []byte("\b \b")
	echoInterrupt = []byte("^C\r\n")
)

// Attach replaces the transport and restarts the line editor.
func (s *Shell) Attach(io IO) {
	s.svc.io = io
	s.ResetService()
}

// ResetService drops any partial line or pending output and prints a
// fresh prompt on the next Service call.
func (s *Shell) ResetService() {
	sv := &s.svc
	sv.state = stateReset
	sv.pending = nil
	sv.pos = 0
	sv.esc = escNone
	sv.lastCR = false
	sv.line.Reset()
}

// Line returns the partially typed command line.
func (s *Shell) Line() string { return s.svc.line.String() }

// Service performs one bounded step of the line editor and reports
// whether it made progress. It never blocks. The first call seals the
// mount registry.
//
// Callback output is fully written before another line is read, so at
// most one callback result is ever in flight.
func (s *Shell) Service() bool {
	s.sealed = true
	sv := &s.svc
	if sv.io == nil {
		return false
	}

	switch sv.state {
	case stateReset:
		sv.line.Reset()
		sv.esc = escNone
		s.buildPrompt()
		s.write(sv.prompt.Bytes(), stateRead)
		return true
	case stateWrite:
		return s.flush()
	case stateRead:
		c, ok := sv.io.ReadChar()
		if !ok {
			return false
		}
		s.input(c)
		return true
	case stateExec:
		s.execLine()
		return true
	}
	return false
}

func (s *Shell) buildPrompt() {
	p := s.svc.prompt
	p.Reset()
	if err := s.CurrentDir(s.dirPath); err != nil {
		s.dirPath.Reset()
	}
	err := writeAll(p, promptPrefix, s.cfg.Hostname, " ")
	if err == nil {
		_, err = p.Write(s.dirPath.Bytes())
	}
	if err == nil {
		err = p.WriteString(promptSuffix)
	}
	if err != nil {
		p.Reset()
		_ = writeAll(p, promptPrefix, s.cfg.Hostname, promptSuffix)
	}
}

func (s *Shell) write(b []byte, after serviceState) {
	sv := &s.svc
	sv.pending = b
	sv.pos = 0
	sv.after = after
	sv.state = stateWrite
}


func (s *Shell) flush() bool {
	sv := &s.svc
	progress := false
	for sv.pos < len(sv.pending) {
		if !sv.io.WriteChar(sv.pending[sv.pos]) {
			return progress
		}
		sv.pos++
		progress = true
	}
	sv.pending = nil
	sv.pos = 0
	sv.state = sv.after
	return true
}

func (s *Shell) input(c byte) {
	sv := &s.svc

	switch sv.esc {
	case escStart:
		if c == '[' {
			sv.esc = escCSI
		} else {
			sv.esc = escNone
		}
		return
	case escCSI:
		if c >= 0x40 && c <= 0x7e {
			sv.esc = escNone
		}
		return
	}

	wasCR := sv.lastCR
	sv.lastCR = c == '\r'

	switch {
	case c == 0x1b:
		sv.esc = escStart
	case c == '\r' || c == '\n':
		if c == '\n' && wasCR {
			return
		}
		s.write(echoNewline, stateExec)
	case c == 0x7f || c == 0x08:
		if sv.line.Len() == 0 {
			return
		}
		n := sv.line.Len() - 1
		b := sv.line.Bytes()
		for n > 0 && b[n]&0xc0 == 0x80 {
			n--
		}
		sv.line.Truncate(n)
		s.write(echoErase, stateRead)
	case c == 0x03:
		s.write(echoInterrupt, stateReset)
	case c < 0x20:
	default:
		if sv.line.WriteByte(c) != nil {
			return
		}
		sv.echo[0] = c
		s.write(sv.echo[:], stateRead)
	}
}

func (s *Shell) execLine() {
	argv, err := SplitArgs(s.svc.line.String())
	if err != nil {
		s.write(messageBytes(err, s.output), stateReset)
		return
	}
	if len(argv) == 0 {
		s.svc.state = stateReset
		return
	}
	out, err := s.Exec(argv)
	switch {
	case err != nil:
		s.write(messageBytes(err, s.output), stateReset)
	case len(out) > 0:
		s.write(out, stateReset)
	default:
		s.svc.state = stateReset
	}
}
