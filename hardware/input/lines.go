package input

import (
	"time"

	gpio "github.com/temoto/gpio-cdev-go"

	"github.com/pocketpal/pocketpal/hardware/profile"
	"github.com/pocketpal/pocketpal/internal/types"
)

const (
	JoystickTag = "gpio-joystick"
	ButtonsTag  = "gpio-buttons"
)

type lineReader interface {
	Read() (gpio.HandleData, error)
}

type lineBinding struct {
	offset uint32
	ev     types.InputEvent // template, At is stamped at poll time
}

// lineSource turns level changes on a set of GPIO lines into press events.
// The physical lines are active-low with pull-ups; the kernel inverts them
// for us, so 1 here always means pressed.
type lineSource struct {
	tag   string
	chip  gpio.Chiper
	lines lineReader
	bind  []lineBinding
	prev  []byte
	queue []types.InputEvent
}

// compile-time interface compliance test
var _ Source = new(lineSource)

func (s *lineSource) String() string { return s.tag }

func (s *lineSource) Poll(now time.Time) (types.InputEvent, error) {
	if len(s.queue) == 0 {
		data, err := s.lines.Read()
		if err != nil {
			return types.InputEvent{}, types.WrapHardware(err, s.tag)
		}
		for i := range s.bind {
			v := data.Values[i]
			if v == 1 && s.prev[i] == 0 {
				e := s.bind[i].ev
				e.At = now
				s.queue = append(s.queue, e)
			}
			s.prev[i] = v
		}
	}
	if len(s.queue) == 0 {
		return types.InputEvent{}, nil
	}
	e := s.queue[0]
	s.queue = s.queue[1:]
	return e, nil
}

func (s *lineSource) Close() error {
	var err error
	if closer, ok := s.lines.(gpio.Lineser); ok {
		err = closer.Close()
	}
	if s.chip != nil {
		if e2 := s.chip.Close(); err == nil {
			err = e2
		}
	}
	return err
}

func newLineSource(tag, chipDev string, bind []lineBinding) (*lineSource, error) {
	chip, err := gpio.Open(chipDev, "pocketpal-"+tag)
	if err != nil {
		return nil, types.WrapHardware(err, tag+" gpio open")
	}
	offsets := make([]uint32, len(bind))
	for i, b := range bind {
		offsets[i] = b.offset
	}
	lines, err := chip.OpenLines(
		gpio.GPIOHANDLE_REQUEST_INPUT|gpio.GPIOHANDLE_REQUEST_ACTIVE_LOW,
		tag, offsets...)
	if err != nil {
		_ = chip.Close()
		return nil, types.WrapHardware(err, tag+" gpio lines")
	}
	return &lineSource{
		tag:   tag,
		chip:  chip,
		lines: lines,
		bind:  bind,
		prev:  make([]byte, len(bind)),
	}, nil
}

// NewJoystick opens the 5-way joystick lines of the variant.
func NewJoystick(chipDev string, cfg profile.JoystickConfig) (Source, error) {
	dirEvent := func(d types.Direction) types.InputEvent {
		return types.InputEvent{Kind: types.InputDirection, Source: JoystickTag, Dir: d}
	}
	bind := []lineBinding{
		{cfg.PinUp, dirEvent(types.DirUp)},
		{cfg.PinDown, dirEvent(types.DirDown)},
		{cfg.PinLeft, dirEvent(types.DirLeft)},
		{cfg.PinRight, dirEvent(types.DirRight)},
		{cfg.PinCenter, dirEvent(types.DirCenter)},
	}
	return newLineSource(JoystickTag, chipDev, bind)
}

// NewButtons opens the action button lines the variant actually has.
func NewButtons(chipDev string, cfg profile.ButtonsConfig) (Source, error) {
	bind := make([]lineBinding, 0, 4)
	for _, b := range []struct {
		pin int
		btn types.Button
	}{
		{cfg.PinA, types.ButtonA},
		{cfg.PinB, types.ButtonB},
		{cfg.PinX, types.ButtonX},
		{cfg.PinY, types.ButtonY},
	} {
		if b.pin < 0 {
			continue
		}
		bind = append(bind, lineBinding{
			offset: uint32(b.pin),
			ev:     types.InputEvent{Kind: types.InputButton, Source: ButtonsTag, Btn: b.btn},
		})
	}
	if len(bind) == 0 {
		return nil, types.NewHardwareError("buttons: no pins configured")
	}
	return newLineSource(ButtonsTag, chipDev, bind)
}
