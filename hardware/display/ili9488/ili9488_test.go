package ili9488

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/hardware/profile"
)

type fakeConn struct {
	writes [][]byte
	dc     []byte
	curDC  byte
}

func (f *fakeConn) Tx(w, r []byte) error {
	b := make([]byte, len(w))
	copy(b, w)
	f.writes = append(f.writes, b)
	f.dc = append(f.dc, f.curDC)
	return nil
}

func testDriver(cfg profile.DisplayConfig) (*Driver, *fakeConn) {
	f := &fakeConn{}
	d := New(cfg, nil)
	d.conn = f
	d.setDC = func(v byte) { f.curDC = v }
	d.flush = func() error { return nil }
	return d, f
}

func TestEncode666(t *testing.T) {
	t.Parallel()

	cases := []struct {
		p       display.Color
		r, g, b byte
	}{
		{display.Black, 0x00, 0x00, 0x00},
		{display.White, 0xfc, 0xfc, 0xfc},
		{display.Red, 0xfc, 0x00, 0x00},
		{display.Green, 0x00, 0xfc, 0x00},
		{display.Blue, 0x00, 0x00, 0xfc},
	}
	for _, c := range cases {
		r, g, b := encode666(c.p)
		assert.Equal(t, c.r, r, "%04x r", uint16(c.p))
		assert.Equal(t, c.g, g, "%04x g", uint16(c.p))
		assert.Equal(t, c.b, b, "%04x b", uint16(c.p))
		// low two bits are dont-care on the wire
		assert.Zero(t, r&0x03)
		assert.Zero(t, g&0x03)
		assert.Zero(t, b&0x03)
	}
}

func TestWindowBytes(t *testing.T) {
	t.Parallel()

	d, f := testDriver(profile.DisplayConfig{Width: 320, Height: 480})
	require.NoError(t, d.window(0, 0, 319, 479))
	require.Len(t, f.writes, 5)
	assert.Equal(t, []byte{cmdCaSet}, f.writes[0])
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x3f}, f.writes[1]) // 0..319
	assert.Equal(t, []byte{cmdPaSet}, f.writes[2])
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0xdf}, f.writes[3]) // 0..479
	assert.Equal(t, []byte{cmdRamWr}, f.writes[4])
	assert.Equal(t, []byte{0, 1, 0, 1, 0}, f.dc)
}

func TestPresentStreamsThreeBytesPerPixel(t *testing.T) {
	t.Parallel()

	d, f := testDriver(profile.DisplayConfig{Width: 2, Height: 1})
	c := display.NewCanvas(2, 1)
	c.SetPixel(0, 0, display.Red)
	c.SetPixel(1, 0, display.Blue)
	require.NoError(t, d.Present(c))

	last := f.writes[len(f.writes)-1]
	require.Len(t, last, 6)
	assert.Equal(t, []byte{0xfc, 0x00, 0x00}, last[0:3])
	assert.Equal(t, []byte{0x00, 0x00, 0xfc}, last[3:6])
	assert.Equal(t, byte(1), f.dc[len(f.dc)-1])
}

func TestPresentChunksLargeFrames(t *testing.T) {
	t.Parallel()

	d, f := testDriver(profile.DisplayConfig{Width: 320, Height: 480})
	c := display.NewCanvas(320, 480)
	require.NoError(t, d.Present(c))
	total := 0
	for i, w := range f.writes {
		if f.dc[i] == 1 {
			assert.LessOrEqual(t, len(w), chunkSize)
			total += len(w)
		}
	}
	// window parameters (8 bytes) plus the full frame
	assert.Equal(t, 8+320*480*3, total)
}

func TestMadctlRotation(t *testing.T) {
	t.Parallel()

	for rot, want := range map[int]byte{
		0:   madctlBGR,
		90:  madctlBGR | madctlMV | madctlMY,
		180: madctlBGR | madctlMX | madctlMY,
		270: madctlBGR | madctlMV | madctlMX,
	} {
		d, _ := testDriver(profile.DisplayConfig{Rotation: rot})
		assert.Equal(t, want, d.madctl(), "rotation=%d", rot)
	}
}
