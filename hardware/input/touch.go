package input

import (
	"io"
	"syscall"
	"time"

	inputevent "github.com/temoto/inputevent-go"

	"github.com/pocketpal/pocketpal/hardware/profile"
	"github.com/pocketpal/pocketpal/internal/types"
)

const TouchTag = "evdev-touch"

// linux/input-event-codes.h, the subset the touch controller reports
const (
	evSyn    = 0x00
	evKey    = 0x01
	evAbs    = 0x03
	absX     = 0x00
	absY     = 0x01
	btnTouch = 0x14a
)

// Touch reads a touchscreen evdev device in non-blocking mode and emits
// one event per contact, at touch-down, in logical display coordinates.
type Touch struct {
	f        io.ReadCloser
	cfg      profile.TouchConfig
	rotation int
	dispW    int
	dispH    int

	curX, curY int32
	down       bool
	reported   bool
	queue      []types.InputEvent
}

// compile-time interface compliance test
var _ Source = new(Touch)

func NewTouch(cfg profile.TouchConfig, rotation, dispW, dispH int) (*Touch, error) {
	fd, err := syscall.Open(cfg.Device, syscall.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, types.WrapHardware(err, "touch open "+cfg.Device)
	}
	return &Touch{
		f:        &rawFile{fd: fd},
		cfg:      cfg,
		rotation: rotation,
		dispW:    dispW,
		dispH:    dispH,
	}, nil
}

func (t *Touch) String() string { return TouchTag }

func (t *Touch) Poll(now time.Time) (types.InputEvent, error) {
	for len(t.queue) == 0 {
		ie, err := inputevent.ReadOne(t.f)
		if err == syscall.EAGAIN {
			break
		}
		if err != nil {
			return types.InputEvent{}, types.WrapHardware(err, TouchTag)
		}
		t.consume(ie, now)
	}
	if len(t.queue) == 0 {
		return types.InputEvent{}, nil
	}
	e := t.queue[0]
	t.queue = t.queue[1:]
	return e, nil
}

func (t *Touch) consume(ie inputevent.InputEvent, now time.Time) {
	switch ie.Type {
	case evAbs:
		switch ie.Code {
		case absX:
			t.curX = ie.Value
		case absY:
			t.curY = ie.Value
		}
	case evKey:
		if ie.Code == btnTouch {
			t.down = ie.Value != int32(inputevent.KeyStateUp)
			if !t.down {
				t.reported = false
			}
		}
	case evSyn:
		if t.down && !t.reported {
			x, y := translate(t.cfg, t.rotation, t.dispW, t.dispH, t.curX, t.curY)
			t.queue = append(t.queue, types.InputEvent{
				Kind:   types.InputTouch,
				Source: TouchTag,
				X:      x,
				Y:      y,
				At:     now,
			})
			t.reported = true
		}
	}
}

func (t *Touch) Close() error { return t.f.Close() }

// translate maps raw controller coordinates to logical display coordinates:
// panel quirks first (axis swap, mirroring), then the configured rotation,
// then scaling when the raw space differs from the panel resolution.
func translate(cfg profile.TouchConfig, rotation, dispW, dispH int, rx, ry int32) (int16, int16) {
	x, y := int(rx), int(ry)
	if cfg.SwapXY {
		x, y = y, x
	}
	if cfg.InvertX {
		x = cfg.Width - 1 - x
	}
	if cfg.InvertY {
		y = cfg.Height - 1 - y
	}
	var lx, ly int
	switch rotation {
	case 90:
		lx, ly = y, cfg.Width-1-x
	case 180:
		lx, ly = cfg.Width-1-x, cfg.Height-1-y
	case 270:
		lx, ly = cfg.Height-1-y, x
	default:
		lx, ly = x, y
	}
	srcW, srcH := cfg.Width, cfg.Height
	if rotation == 90 || rotation == 270 {
		srcW, srcH = srcH, srcW
	}
	if dispW > 0 && srcW > 0 && dispW != srcW {
		lx = lx * dispW / srcW
	}
	if dispH > 0 && srcH > 0 && dispH != srcH {
		ly = ly * dispH / srcH
	}
	return int16(clampInt(lx, 0, dispW-1)), int16(clampInt(ly, 0, dispH-1))
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

// rawFile wraps a non-blocking fd without handing it to the runtime poller:
// an empty read must return EAGAIN to the caller instead of parking.
type rawFile struct {
	fd int
}

func (r *rawFile) Read(b []byte) (int, error) {
	return syscall.Read(r.fd, b)
}

func (r *rawFile) Close() error {
	return syscall.Close(r.fd)
}
