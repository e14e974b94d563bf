// Package display is the uniform pixel-drawing layer over the panel
// controller backends. The Canvas is owned by the Display; apps and the
// launcher draw on it by reference during their draw call and must not
// retain it.
package display

// Color is RGB565, the wire format of both panel families.
type Color uint16

func RGB(r, g, b byte) Color {
	return Color(uint16(r)&0xf8<<8 | uint16(g)&0xfc<<3 | uint16(b)&0xf8>>3)
}

const (
	Black    Color = 0x0000
	White    Color = 0xffff
	Red      Color = 0xf800
	Green    Color = 0x07e0
	Blue     Color = 0x001f
	Cyan     Color = 0x07ff
	Magenta  Color = 0xf81f
	Yellow   Color = 0xffe0
	Orange   Color = 0xfd20
	Gray     Color = 0x8410
	DarkGray Color = 0x4208
)

// Canvas dimensions are fixed for the device lifetime. Every draw
// primitive clips to [0,w)x[0,h): out-of-bounds coordinates are legal and
// never corrupt memory outside the buffer.
type Canvas struct {
	w, h int
	pix  []Color
}

func NewCanvas(w, h int) *Canvas {
	if w <= 0 || h <= 0 {
		panic("code error canvas size")
	}
	return &Canvas{w: w, h: h, pix: make([]Color, w*h)}
}

func (c *Canvas) Width() int       { return c.w }
func (c *Canvas) Height() int      { return c.h }
func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Pix exposes the raw buffer to drivers, row-major.
func (c *Canvas) Pix() []Color { return c.pix }

// At returns Black outside the canvas.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return Black
	}
	return c.pix[y*c.w+x]
}

func (c *Canvas) SetPixel(x, y int, col Color) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.pix[y*c.w+x] = col
}

func (c *Canvas) Fill(col Color) {
	for i := range c.pix {
		c.pix[i] = col
	}
}

func (c *Canvas) FillRect(x, y, w, h int, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0 := clamp(x, 0, c.w), clamp(y, 0, c.h)
	x1, y1 := clamp(x+w, 0, c.w), clamp(y+h, 0, c.h)
	for yy := y0; yy < y1; yy++ {
		row := c.pix[yy*c.w : yy*c.w+c.w]
		for xx := x0; xx < x1; xx++ {
			row[xx] = col
		}
	}
}

// Rect draws a 1px outline.
func (c *Canvas) Rect(x, y, w, h int, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.DrawHLine(x, y, w, col)
	c.DrawHLine(x, y+h-1, w, col)
	c.DrawVLine(x, y, h, col)
	c.DrawVLine(x+w-1, y, h, col)
}

func (c *Canvas) DrawHLine(x, y, w int, col Color) {
	if y < 0 || y >= c.h || w <= 0 {
		return
	}
	x0, x1 := clamp(x, 0, c.w), clamp(x+w, 0, c.w)
	row := c.pix[y*c.w : y*c.w+c.w]
	for xx := x0; xx < x1; xx++ {
		row[xx] = col
	}
}

func (c *Canvas) DrawVLine(x, y, h int, col Color) {
	if x < 0 || x >= c.w || h <= 0 {
		return
	}
	y0, y1 := clamp(y, 0, c.h), clamp(y+h, 0, c.h)
	for yy := y0; yy < y1; yy++ {
		c.pix[yy*c.w+x] = col
	}
}

// DrawLine is Bresenham; endpoints may lie outside the canvas.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.SetPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawText renders ASCII with the built-in 5x7 font, 6px advance.
// Characters outside the font map to '?'.
func (c *Canvas) DrawText(s string, x, y int, col Color) {
	c.DrawTextScaled(s, x, y, col, 1)
}

func (c *Canvas) DrawTextScaled(s string, x, y int, col Color, scale int) {
	if scale < 1 {
		scale = 1
	}
	cx := x
	for _, r := range s {
		if r == '\n' {
			cx = x
			y += (fontHeight + 1) * scale
			continue
		}
		g := glyph(r)
		for gx := 0; gx < fontWidth; gx++ {
			bits := g[gx]
			for gy := 0; gy < fontHeight; gy++ {
				if bits&(1<<uint(gy)) == 0 {
					continue
				}
				if scale == 1 {
					c.SetPixel(cx+gx, y+gy, col)
				} else {
					c.FillRect(cx+gx*scale, y+gy*scale, scale, scale, col)
				}
			}
		}
		cx += fontAdvance * scale
	}
}

// TextWidth returns the pixel width of s at scale 1.
func TextWidth(s string) int {
	n := 0
	for range s {
		n++
	}
	if n == 0 {
		return 0
	}
	return n*fontAdvance - (fontAdvance - fontWidth)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
