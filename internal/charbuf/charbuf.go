// Package charbuf adapts a blocking byte stream to the shell's polled
// character interface.
package charbuf

import (
	"io"
	"sync"
)

// DefaultCapacity sizes both the input queue and the output buffer.
const DefaultCapacity = 256

// Port implements ush.IO over an io.ReadWriter.
//
// A reader goroutine moves input into a bounded queue; it blocks while
// the queue is full. Output is collected and written by Flush, so a line
// ending never straddles two writes.
type Port struct {
	rw  io.ReadWriter
	ch  chan byte
	out []byte

	intr   byte
	onIntr func()

	mu   sync.Mutex
	err  error
	done chan struct{}
	stop chan struct{}
	once sync.Once
}

// Option configures a Port.
type Option func(*Port)

// WithCapacity sets the input queue size.
func WithCapacity(n int) Option {
	return func(p *Port) {
		if n > 0 {
			p.ch = make(chan byte, n)
		}
	}
}

// WithWriteBuffer sets how many output bytes collect before a write.
func WithWriteBuffer(n int) Option {
	return func(p *Port) {
		if n > 0 {
			p.out = make([]byte, 0, n)
		}
	}
}

// WithInterrupt calls fn from the reader goroutine whenever b arrives.
// The byte itself is not queued.
func WithInterrupt(b byte, fn func()) Option {
	return func(p *Port) {
		p.intr = b
		p.onIntr = fn
	}
}

// New starts reading rw.
func New(rw io.ReadWriter, opts ...Option) *Port {
	p := &Port{
		rw:   rw,
		ch:   make(chan byte, DefaultCapacity),
		out:  make([]byte, 0, DefaultCapacity),
		done: make(chan struct{}),
		stop: make(chan struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	go p.readLoop()
	return p
}

func (p *Port) readLoop() {
	defer close(p.done)
	var buf [64]byte
	for {
		n, err := p.rw.Read(buf[:])
		for _, b := range buf[:n] {
			if p.onIntr != nil && b == p.intr {
				p.onIntr()
				continue
			}
			select {
			case p.ch <- b:
			case <-p.stop:
				return
			}
		}
		if err != nil {
			p.setErr(err)
			return
		}
	}
}

func (p *Port) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

// ReadChar never blocks.
func (p *Port) ReadChar() (byte, bool) {
	select {
	case b := <-p.ch:
		return b, true
	default:
		return 0, false
	}
}

// Buffered reports how many input bytes are queued.
func (p *Port) Buffered() int { return len(p.ch) }

// WriteChar buffers b. A full buffer is written out first, except for a
// trailing CR which stays with the LF that follows it.
func (p *Port) WriteChar(b byte) bool {
	if len(p.out) == cap(p.out) {
		_ = p.flush(true)
	}
	p.out = append(p.out, b)
	return true
}

// Flush writes the buffered output in one call. A failed write drops the
// output; the error is also reported by Err.
func (p *Port) Flush() error {
	return p.flush(false)
}

func (p *Port) flush(keepCR bool) error {
	n := len(p.out)
	if keepCR && n > 1 && p.out[n-1] == '\r' {
		n--
	}
	if n == 0 {
		return nil
	}
	_, err := p.rw.Write(p.out[:n])
	p.out = p.out[:copy(p.out, p.out[n:])]
	if err != nil {
		p.setErr(err)
		return err
	}
	return nil
}

// Done is closed when the reader stops (end of stream, read error or
// Close).
func (p *Port) Done() <-chan struct{} { return p.done }

// Err returns the first stream error (io.EOF at end of input).
func (p *Port) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close stops delivery. A reader blocked inside Read exits once that Read
// returns; closing the underlying stream unblocks it.
func (p *Port) Close() error {
	p.once.Do(func() { close(p.stop) })
	if c, ok := p.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
