// Package app assembles a device shell on a HAL and hands back the step
// function the platform runner polls.
package app

import (
	"errors"
	"runtime"

	"github.com/synco/microshell/hal"
	"github.com/synco/microshell/internal/charbuf"
	"github.com/synco/microshell/internal/device"
	"github.com/synco/microshell/internal/term"
	"github.com/synco/microshell/ush"
)

// ErrClosed is returned by the step function once the serial stream is
// closed without an error of its own.
var ErrClosed = errors.New("app: serial closed")

// EOT (Ctrl-D) on the serial line calls Config.Interrupt.
const EOT = 0x04

type Config struct {
	Shell ush.Config

	// Console runs the shell on the display and keyboard instead of the
	// serial port.
	Console bool

	// StepLimit bounds Service calls per step.
	StepLimit int

	// Interrupt, when set, is called on EOT from the serial port.
	Interrupt func()
}

// DefaultConfig returns the compiled-in configuration used on TinyGo.
func DefaultConfig() Config {
	return Config{
		Shell:     ush.Config{Hostname: "pico"},
		StepLimit: 256,
	}
}

type system struct {
	h    hal.HAL
	sh   *ush.Shell
	port *charbuf.Port
	con  *term.Console

	limit int
}

// New starts the shell with the default config.
func New(h hal.HAL) (func() error, error) {
	return NewWithConfig(h, DefaultConfig())
}

// Run starts the shell and polls it forever (TinyGo entrypoint).
func Run(h hal.HAL) {
	step, err := New(h)
	if err != nil {
		h.Logger().WriteLineString("microshell: " + err.Error())
		select {}
	}
	for {
		if err := step(); err != nil {
			h.Logger().WriteLineString("microshell: " + err.Error())
			select {}
		}
		runtime.Gosched()
	}
}

// NewWithConfig wires the device shell to the HAL's serial port, or to
// its display when cfg.Console is set, and returns the step function.
func NewWithConfig(h hal.HAL, cfg Config) (func() error, error) {
	s, err := newSystem(h, cfg)
	if err != nil {
		return nil, err
	}
	return s.step, nil
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	s := &system{h: h, limit: cfg.StepLimit}
	if s.limit <= 0 {
		s.limit = DefaultConfig().StepLimit
	}

	shCfg := cfg.Shell
	if cfg.Console {
		con, err := term.New(h.Display(), h.Input())
		if err != nil {
			return nil, err
		}
		s.con = con
		shCfg.IO = con
	} else {
		serial := h.Serial()
		if serial == nil {
			return nil, hal.ErrNotImplemented
		}
		var opts []charbuf.Option
		if cfg.Interrupt != nil {
			opts = append(opts, charbuf.WithInterrupt(EOT, cfg.Interrupt))
		}
		s.port = charbuf.New(serial, opts...)
		shCfg.IO = s.port
	}

	var devOpts []device.Option
	if led := h.LED(); led != nil {
		devOpts = append(devOpts, device.WithPin(led))
	}
	sh, err := device.New(shCfg, devOpts...)
	if err != nil {
		if s.port != nil {
			_ = s.port.Close()
		}
		return nil, err
	}
	s.sh = sh
	return s, nil
}

func (s *system) step() (err error) {
	defer s.recoverPanic(&err)

	progress := false
	for i := 0; i < s.limit && s.sh.Service(); i++ {
		progress = true
	}
	if s.con != nil {
		if err := s.con.Flush(); err != nil {
			return err
		}
	}
	if s.port == nil {
		return nil
	}
	if err := s.port.Flush(); err != nil {
		return err
	}
	if progress {
		return nil
	}
	return s.portClosed()
}

// portClosed reports the end of the serial stream once the reader has
// stopped and every byte it queued has been consumed.
func (s *system) portClosed() error {
	select {
	case <-s.port.Done():
	default:
		return nil
	}
	if s.port.Buffered() > 0 {
		return nil
	}
	if err := s.port.Err(); err != nil {
		return err
	}
	return ErrClosed
}
