//go:build !tinygo

package hal

import (
	"errors"
	"os"

	"github.com/creack/pty"
)

// PTY is a pseudo-terminal pair. The shell talks over the master side;
// terminal programs (screen, picocom, minicom) open Name().
type PTY struct {
	master *os.File
	slave  *os.File
}

// OpenPTY allocates a pseudo-terminal.
func OpenPTY() (*PTY, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, err
	}
	return &PTY{master: master, slave: slave}, nil
}

// Name is the path of the slave device.
func (p *PTY) Name() string { return p.slave.Name() }

func (p *PTY) Read(b []byte) (int, error)  { return p.master.Read(b) }
func (p *PTY) Write(b []byte) (int, error) { return p.master.Write(b) }

func (p *PTY) Close() error {
	return errors.Join(p.master.Close(), p.slave.Close())
}
