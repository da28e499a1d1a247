// Package term renders a shell on a framebuffer and reads it from a
// keyboard.
package term

import (
	"errors"
	"io"
	"unicode/utf8"

	"github.com/synco/microshell/hal"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	fontHeight = 10
	fontOffset = 6
)

var ErrNoDisplay = errors.New("term: no framebuffer")

// Console implements ush.IO on a display and keyboard.
type Console struct {
	d   *fbDisplay
	t   *tinyterm.Terminal
	w   io.Writer
	kbd hal.Keyboard

	in    []byte
	one   [1]byte
	dirty bool
	err   error
}

// New builds a console on the display's framebuffer. in may be nil for an
// output-only console.
func New(disp hal.Display, in hal.Input) (*Console, error) {
	if disp == nil {
		return nil, ErrNoDisplay
	}
	fb := disp.Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return nil, ErrNoDisplay
	}

	c := &Console{d: newFBDisplay(fb)}
	if in != nil {
		c.kbd = in.Keyboard()
	}
	c.Reset()
	return c, nil
}

// Reset clears the screen and homes the cursor.
func (c *Console) Reset() {
	c.t = tinyterm.NewTerminal(c.d)
	c.t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: fontHeight,
		FontOffset: fontOffset,
	})
	c.w = c.t
	c.dirty = true
}

func (c *Console) ReadChar() (byte, bool) {
	if len(c.in) == 0 {
		c.poll()
	}
	if len(c.in) == 0 {
		return 0, false
	}
	b := c.in[0]
	c.in = c.in[1:]
	return b, true
}

// WriteChar draws b. A byte the terminal rejects is dropped and the
// error is kept for Err.
func (c *Console) WriteChar(b byte) bool {
	c.one[0] = b
	if _, err := c.w.Write(c.one[:]); err != nil {
		if c.err == nil {
			c.err = err
		}
		return true
	}
	c.dirty = true
	return true
}

// Err returns the first write error.
func (c *Console) Err() error { return c.err }

// Flush presents the screen if anything was drawn since the last call.
func (c *Console) Flush() error {
	if !c.dirty {
		return nil
	}
	c.dirty = false
	return c.d.Display()
}

func (c *Console) poll() {
	if c.kbd == nil {
		return
	}
	ch := c.kbd.Events()
	if ch == nil {
		return
	}
	for {
		select {
		case ev := <-ch:
			c.in = appendKey(c.in, ev)
		default:
			return
		}
	}
}

var keySeq = map[hal.KeyCode]string{
	hal.KeyEnter:     "\r",
	hal.KeyBackspace: "\x7f",
	hal.KeyTab:       "\t",
	hal.KeyEscape:    "\x1b",
	hal.KeyUp:        "\x1b[A",
	hal.KeyDown:      "\x1b[B",
	hal.KeyRight:     "\x1b[C",
	hal.KeyLeft:      "\x1b[D",
	hal.KeyHome:      "\x1b[H",
	hal.KeyEnd:       "\x1b[F",
	hal.KeyDelete:    "\x1b[3~",
}

// appendKey converts a key press into the bytes a VT100 would send.
func appendKey(dst []byte, ev hal.KeyEvent) []byte {
	if !ev.Press {
		return dst
	}
	if ev.Code == hal.KeyUnknown {
		if ev.Rune == 0 || !utf8.ValidRune(ev.Rune) {
			return dst
		}
		return utf8.AppendRune(dst, ev.Rune)
	}
	return append(dst, keySeq[ev.Code]...)
}
