package term

import (
	"image/color"

	"github.com/synco/microshell/hal"

	"tinygo.org/x/drivers"
)

// fbDisplay is a tinyterm Displayer over an RGB565 framebuffer.
//
// Drawing goes to a shadow buffer in display-memory order. Display copies
// it to the framebuffer applying the vertical scroll offset, the way a
// panel with hardware scrolling (ILI9341 VSCRSADD) maps memory rows to
// screen rows.
type fbDisplay struct {
	fb     hal.Framebuffer
	w, h   int
	stride int
	shadow []byte

	scroll    int16
	topFixed  int16
	bottomFix int16
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	d := &fbDisplay{fb: fb}
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return d
	}
	d.w, d.h = fb.Width(), fb.Height()
	d.stride = d.w * 2
	d.shadow = make([]byte, d.stride*d.h)
	return d
}

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.w), int16(d.h)
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.w || iy < 0 || iy >= d.h {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	off := iy*d.stride + ix*2
	d.shadow[off] = byte(pixel)
	d.shadow[off+1] = byte(pixel >> 8)
}

// Display copies the shadow buffer to the framebuffer and presents it.
func (d *fbDisplay) Display() error {
	if d.shadow == nil {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return d.fb.Present()
	}
	dstStride := d.fb.StrideBytes()
	for y := 0; y < d.h; y++ {
		src := d.memoryRow(y) * d.stride
		dst := y * dstStride
		if dst+d.stride > len(buf) {
			break
		}
		copy(buf[dst:dst+d.stride], d.shadow[src:src+d.stride])
	}
	return d.fb.Present()
}

// memoryRow maps a screen row to the shadow row shown there.
func (d *fbDisplay) memoryRow(y int) int {
	top, bottom := int(d.topFixed), d.h-int(d.bottomFix)
	region := bottom - top
	if y < top || y >= bottom || region <= 0 {
		return y
	}
	start := int(d.scroll) - top
	return top + ((y-top)+start%region+region)%region
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.shadow == nil {
		return nil
	}
	x0 := clampInt(int(x), 0, d.w)
	y0 := clampInt(int(y), 0, d.h)
	x1 := clampInt(int(x)+int(width), 0, d.w)
	y1 := clampInt(int(y)+int(height), 0, d.h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for py := y0; py < y1; py++ {
		row := py * d.stride
		for px := x0; px < x1; px++ {
			d.shadow[row+px*2] = lo
			d.shadow[row+px*2+1] = hi
		}
	}
	return nil
}

func (d *fbDisplay) SetScrollArea(topFixedArea, bottomFixedArea int16) {
	d.topFixed = topFixedArea
	d.bottomFix = bottomFixedArea
}

func (d *fbDisplay) SetScroll(line int16) { d.scroll = line }

func (d *fbDisplay) StopScroll() {
	d.scroll = 0
	d.topFixed = 0
	d.bottomFix = 0
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	if rotation != drivers.Rotation0 {
		return hal.ErrNotImplemented
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
