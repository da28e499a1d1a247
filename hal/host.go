//go:build !tinygo

package hal

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// FramebufferWidth and FramebufferHeight size the host display.
const (
	FramebufferWidth  = 320
	FramebufferHeight = 320
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	serial Serial
}

// New returns a host HAL with the shell on stdin/stdout.
func New() HAL {
	return NewWithSerial(&hostSerial{r: os.Stdin, w: os.Stdout})
}

// NewWithSerial returns a host HAL whose serial port is s. Logs go to the
// default charm logger, which writes to stderr.
func NewWithSerial(s Serial) HAL {
	return newHost(s, log.Default())
}

func newHost(s Serial, l *log.Logger) *hostHAL {
	logger := &hostLogger{l: l.WithPrefix("hal")}
	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		fb:     newHostFramebuffer(FramebufferWidth, FramebufferHeight),
		kbd:    newHostKeyboard(),
		serial: s,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Serial() Serial   { return h.serial }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	l *log.Logger
}

func (l *hostLogger) WriteLineString(s string) { l.l.Info(s) }
func (l *hostLogger) WriteLineBytes(b []byte)  { l.l.Info(string(b)) }

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() { l.set(true) }
func (l *hostLED) Low()  { l.set(false) }

func (l *hostLED) set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = on
	l.logger.l.Debug("led", "on", on)
}
