package ush

// Buffer is a fixed-capacity byte buffer.
//
// The capacity counts a trailing terminator, so at most Cap()-1 bytes of
// content fit. Writes never grow the backing array.
type Buffer struct {
	b []byte
}

// NewBuffer allocates a buffer with the given capacity (minimum 1).
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{b: make([]byte, 0, capacity)}
}

func (b *Buffer) Cap() int       { return cap(b.b) }
func (b *Buffer) Len() int       { return len(b.b) }
func (b *Buffer) Bytes() []byte  { return b.b }
func (b *Buffer) String() string { return string(b.b) }
func (b *Buffer) Reset()         { b.b = b.b[:0] }

// Available reports how many more content bytes fit.
func (b *Buffer) Available() int {
	return cap(b.b) - 1 - len(b.b)
}

// WriteString appends s, or leaves the buffer untouched and returns
// ErrBufferTooSmall when s does not fit.
func (b *Buffer) WriteString(s string) error {
	if len(s) > b.Available() {
		return ErrBufferTooSmall
	}
	b.b = append(b.b, s...)
	return nil
}

// WriteByte appends c, or returns ErrBufferTooSmall when the buffer is full.
func (b *Buffer) WriteByte(c byte) error {
	if b.Available() < 1 {
		return ErrBufferTooSmall
	}
	b.b = append(b.b, c)
	return nil
}

// Truncate drops content past n bytes.
func (b *Buffer) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(b.b) {
		b.b = b.b[:n]
	}
}

func (b *Buffer) equal(s string) bool {
	return string(b.b) == s
}

// Write implements io.Writer with the same all-or-nothing rule as
// WriteString.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) > b.Available() {
		return 0, ErrBufferTooSmall
	}
	b.b = append(b.b, p...)
	return len(p), nil
}
