package input

import (
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	inputevent "github.com/temoto/inputevent-go"

	"github.com/pocketpal/pocketpal/hardware/profile"
	"github.com/pocketpal/pocketpal/internal/types"
)

type fakeEvdev struct {
	events [][]byte
	pos    int
}

func (f *fakeEvdev) Read(b []byte) (int, error) {
	if f.pos >= len(f.events) {
		return 0, syscall.EAGAIN
	}
	n := copy(b, f.events[f.pos])
	f.pos++
	return n, nil
}

func (f *fakeEvdev) Close() error { return nil }

func rawEvent(typ, code uint16, value int32) []byte {
	ie := inputevent.InputEvent{Type: typ, Code: code, Value: value}
	b := make([]byte, inputevent.EventSizeof)
	copy(b, (*[inputevent.EventSizeof]byte)(unsafe.Pointer(&ie))[:])
	return b
}

func testTouch(cfg profile.TouchConfig, rotation, w, h int, events ...[]byte) (*Touch, *fakeEvdev) {
	f := &fakeEvdev{events: events}
	return &Touch{f: f, cfg: cfg, rotation: rotation, dispW: w, dispH: h}, f
}

func TestTouchEmitsOnceAtTouchDown(t *testing.T) {
	t.Parallel()

	cfg := profile.TouchConfig{Present: true, Device: "x", Width: 320, Height: 480}
	tc, f := testTouch(cfg, 0, 320, 480,
		rawEvent(evAbs, absX, 100),
		rawEvent(evAbs, absY, 200),
		rawEvent(evKey, btnTouch, int32(inputevent.KeyStateDown)),
		rawEvent(evSyn, 0, 0),
		// finger drag: more coordinates while still down
		rawEvent(evAbs, absX, 150),
		rawEvent(evSyn, 0, 0),
	)
	now := time.Now()
	e, err := tc.Poll(now)
	require.NoError(t, err)
	assert.Equal(t, types.InputTouch, e.Kind)
	assert.Equal(t, int16(100), e.X)
	assert.Equal(t, int16(200), e.Y)
	assert.Equal(t, now, e.At)

	// drag is not a new contact
	e, err = tc.Poll(now)
	require.NoError(t, err)
	assert.True(t, e.IsNothing())

	// release and press again
	f.events = append(f.events,
		rawEvent(evKey, btnTouch, int32(inputevent.KeyStateUp)),
		rawEvent(evSyn, 0, 0),
		rawEvent(evAbs, absX, 10),
		rawEvent(evAbs, absY, 20),
		rawEvent(evKey, btnTouch, int32(inputevent.KeyStateDown)),
		rawEvent(evSyn, 0, 0),
	)
	e, err = tc.Poll(now)
	require.NoError(t, err)
	assert.Equal(t, int16(10), e.X)
	assert.Equal(t, int16(20), e.Y)
}

func TestTouchPollEmptyIsNothing(t *testing.T) {
	t.Parallel()

	cfg := profile.TouchConfig{Width: 320, Height: 480}
	tc, _ := testTouch(cfg, 0, 320, 480)
	e, err := tc.Poll(time.Now())
	require.NoError(t, err)
	assert.True(t, e.IsNothing())
}

func TestTranslateRotation(t *testing.T) {
	t.Parallel()

	cfg := profile.TouchConfig{Width: 320, Height: 480}
	cases := []struct {
		rotation     int
		dispW, dispH int
		wantX, wantY int16
	}{
		{0, 320, 480, 100, 200},
		{90, 480, 320, 200, 219},
		{180, 320, 480, 219, 279},
		{270, 480, 320, 279, 100},
	}
	for _, c := range cases {
		x, y := translate(cfg, c.rotation, c.dispW, c.dispH, 100, 200)
		assert.Equal(t, c.wantX, x, "rotation=%d x", c.rotation)
		assert.Equal(t, c.wantY, y, "rotation=%d y", c.rotation)
	}
}

func TestTranslateQuirks(t *testing.T) {
	t.Parallel()

	cfg := profile.TouchConfig{Width: 320, Height: 480, InvertX: true}
	x, y := translate(cfg, 0, 320, 480, 100, 200)
	assert.Equal(t, int16(219), x)
	assert.Equal(t, int16(200), y)

	cfg = profile.TouchConfig{Width: 320, Height: 480, SwapXY: true}
	x, y = translate(cfg, 0, 320, 480, 200, 100)
	assert.Equal(t, int16(100), x)
	assert.Equal(t, int16(200), y)

	// raw space larger than the panel scales down
	cfg = profile.TouchConfig{Width: 640, Height: 960}
	x, y = translate(cfg, 0, 320, 480, 640, 960)
	assert.Equal(t, int16(319), x)
	assert.Equal(t, int16(479), y)
}

func TestTranslateClamps(t *testing.T) {
	t.Parallel()

	cfg := profile.TouchConfig{Width: 320, Height: 480}
	x, y := translate(cfg, 0, 320, 480, -50, 9999)
	assert.Equal(t, int16(0), x)
	assert.Equal(t, int16(479), y)
}
