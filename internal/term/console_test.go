package term

import (
	"errors"
	"testing"

	"github.com/synco/microshell/hal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFB(w, h int) *memFB { return &memFB{w: w, h: h, buf: make([]byte, w*h*2)} }

func (f *memFB) Width() int                   { return f.w }
func (f *memFB) Height() int                  { return f.h }
func (f *memFB) Format() hal.PixelFormat      { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int             { return f.w * 2 }
func (f *memFB) Buffer() []byte               { return f.buf }
func (f *memFB) ClearRGB(r, g, b uint8)       {}
func (f *memFB) Present() error               { f.presents++; return nil }
func (f *memFB) Framebuffer() hal.Framebuffer { return f }

type chanKeyboard chan hal.KeyEvent

func (k chanKeyboard) Events() <-chan hal.KeyEvent { return k }
func (k chanKeyboard) Keyboard() hal.Keyboard      { return k }

func TestNew_RequiresFramebuffer(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNoDisplay)

	_, err = New(&memFB{}, nil)
	assert.ErrorIs(t, err, ErrNoDisplay)
}

func TestConsole_ReadCharFromKeys(t *testing.T) {
	kbd := make(chanKeyboard, 16)
	c, err := New(newMemFB(64, 40), kbd)
	require.NoError(t, err)

	_, ok := c.ReadChar()
	assert.False(t, ok)

	kbd <- hal.KeyEvent{Press: true, Rune: 'l'}
	kbd <- hal.KeyEvent{Press: true, Rune: 'é'}
	kbd <- hal.KeyEvent{Code: hal.KeyUp, Press: true}
	kbd <- hal.KeyEvent{Code: hal.KeyUp, Press: false}
	kbd <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}

	var got []byte
	for {
		b, ok := c.ReadChar()
		if !ok {
			break
		}
		got = append(got, b)
	}
	assert.Equal(t, "lé\x1b[A\r", string(got))
}

func TestConsole_WriteAndFlush(t *testing.T) {
	fb := newMemFB(64, 40)
	c, err := New(fb, nil)
	require.NoError(t, err)

	require.NoError(t, c.Flush())
	assert.Equal(t, 1, fb.presents)
	require.NoError(t, c.Flush())
	assert.Equal(t, 1, fb.presents, "clean console must not present")

	for _, b := range []byte("hi\r\n") {
		assert.True(t, c.WriteChar(b))
	}
	require.NoError(t, c.Flush())
	assert.Equal(t, 2, fb.presents)
}

type failWriter struct{ calls int }

func (f *failWriter) Write([]byte) (int, error) {
	f.calls++
	return 0, errors.New("glyph")
}

func TestConsole_WriteErrorDropsByte(t *testing.T) {
	fb := newMemFB(64, 40)
	c, err := New(fb, nil)
	require.NoError(t, err)
	require.NoError(t, c.Flush())

	w := &failWriter{}
	c.w = w
	assert.True(t, c.WriteChar('x'), "a rejected byte must not stall the shell")
	assert.True(t, c.WriteChar('y'))
	assert.Equal(t, 2, w.calls)
	assert.EqualError(t, c.Err(), "glyph")

	require.NoError(t, c.Flush())
	assert.Equal(t, 1, fb.presents, "nothing was drawn")
}

func TestAppendKey(t *testing.T) {
	tests := []struct {
		name string
		ev   hal.KeyEvent
		want string
	}{
		{"rune", hal.KeyEvent{Press: true, Rune: 'x'}, "x"},
		{"ctrl-c", hal.KeyEvent{Press: true, Rune: 0x03}, "\x03"},
		{"release", hal.KeyEvent{Press: false, Rune: 'x'}, ""},
		{"backspace", hal.KeyEvent{Code: hal.KeyBackspace, Press: true}, "\x7f"},
		{"delete", hal.KeyEvent{Code: hal.KeyDelete, Press: true}, "\x1b[3~"},
		{"left", hal.KeyEvent{Code: hal.KeyLeft, Press: true}, "\x1b[D"},
		{"no rune", hal.KeyEvent{Press: true}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(appendKey(nil, tt.ev)))
		})
	}
}
