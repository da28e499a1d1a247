// Package sshd serves a fresh device shell on every SSH session.
package sshd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"

	"github.com/synco/microshell/app"
	"github.com/synco/microshell/hal"
)

type Config struct {
	// Addr is the listen address, host:port.
	Addr string
	// HostKey is the PEM host key path; wish creates it when missing.
	HostKey string
	// App configures each session's shell. Interrupt is set per session.
	App app.Config
	// Headless drives each session's polling loop.
	Headless hal.HeadlessConfig
}

type Server struct {
	cfg    Config
	logger *log.Logger

	mu       sync.Mutex
	srv      *ssh.Server
	listener net.Listener
	sessions sync.WaitGroup
}

func New(cfg Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, logger: logger.WithPrefix("sshd")}

	srv, err := wish.NewServer(
		wish.WithAddress(cfg.Addr),
		wish.WithHostKeyPath(cfg.HostKey),
		wish.WithMiddleware(
			s.shellMiddleware(),
			activeterm.Middleware(),
			s.logMiddleware(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts sessions on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		err := s.srv.Close()
		s.sessions.Wait()
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return nil
		}
		return fmt.Errorf("serve error: %w", err)
	}
}

// Addr is the bound address once Serve runs.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) logMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			remote := sess.RemoteAddr().String()
			s.logger.Info("session start", "user", sess.User(), "remote", remote)
			next(sess)
			s.logger.Info("session end", "user", sess.User(), "remote", remote)
		}
	}
}

func (s *Server) shellMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			if len(sess.Command()) > 0 {
				wish.Fatalln(sess, "microshell: commands are not supported, open an interactive session")
				return
			}
			s.sessions.Add(1)
			defer s.sessions.Done()

			if err := s.runShell(sess); err != nil {
				s.logger.Warn("session failed", "remote", sess.RemoteAddr().String(), "err", err)
				_ = sess.Exit(1)
				return
			}
			_ = sess.Exit(0)
		}
	}
}

func (s *Server) runShell(sess ssh.Session) error {
	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()

	cfg := s.cfg.App
	cfg.Console = false
	cfg.Interrupt = cancel

	err := hal.RunHeadless(ctx, hal.NewWithSerial(sess), func(h hal.HAL) (func() error, error) {
		return app.NewWithConfig(h, cfg)
	}, s.cfg.Headless)
	return ignoreEnd(err)
}

// ignoreEnd drops the errors that mean the client went away.
func ignoreEnd(err error) error {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, app.ErrClosed),
		errors.Is(err, io.EOF):
		return nil
	}
	return err
}
