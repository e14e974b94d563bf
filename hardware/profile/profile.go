// Package profile resolves the hardware variant description at boot.
// Pin mappings differ materially between variants; an unrecognized or
// incomplete profile is fatal, there is no safe default to guess.
package profile

import (
	"sort"

	"github.com/pocketpal/pocketpal/internal/types"
)

const (
	ControllerST7789  = "st7789"
	ControllerILI9488 = "ili9488"
)

type DisplayConfig struct {
	Controller string
	Width      int // panel native, rotation 0
	Height     int
	Rotation   int // 0, 90, 180, 270
	SPIBus     string
	SPIHz      int64
	PinChip    string
	PinReset   uint32
	PinDC      uint32
	// -1 means the variant has no controllable backlight line
	PinBacklight int
	XOffset      int
	YOffset      int
}

type JoystickConfig struct {
	Present bool

	PinUp, PinDown, PinLeft, PinRight, PinCenter uint32
}

type ButtonsConfig struct {
	Present bool
	// -1 marks a button the variant does not have
	PinA, PinB, PinX, PinY int
}

type TouchConfig struct {
	Present bool
	Device  string // evdev device path
	Width   int    // raw panel coordinate space
	Height  int
	SwapXY  bool
	InvertX bool
	InvertY bool
}

type BatteryConfig struct {
	Present bool
	I2CBus  string
	Addr    uint16
}

// Profile is immutable after Resolve; one instance for the device lifetime.
type Profile struct {
	ID       string
	Name     string
	Display  DisplayConfig
	Joystick JoystickConfig
	Buttons  ButtonsConfig
	Touch    TouchConfig
	Battery  BatteryConfig
}

func (p *Profile) SupportsTouch() bool    { return p.Touch.Present }
func (p *Profile) SupportsJoystick() bool { return p.Joystick.Present }
func (p *Profile) SupportsBattery() bool  { return p.Battery.Present }
func (p *Profile) Rotation() int          { return p.Display.Rotation }

// DisplayDimensions returns the logical size after rotation.
func (p *Profile) DisplayDimensions() (w, h int) {
	w, h = p.Display.Width, p.Display.Height
	if p.Display.Rotation == 90 || p.Display.Rotation == 270 {
		w, h = h, w
	}
	return w, h
}

var table = map[string]Profile{
	"waveshare-1.3": {
		ID:   "waveshare-1.3",
		Name: "Waveshare Pico-LCD-1.3",
		Display: DisplayConfig{
			Controller:   ControllerST7789,
			Width:        240,
			Height:       240,
			Rotation:     0,
			SPIBus:       "SPI0.0",
			SPIHz:        62500000,
			PinChip:      "/dev/gpiochip0",
			PinReset:     12,
			PinDC:        8,
			PinBacklight: 13,
		},
		Joystick: JoystickConfig{
			Present: true,
			PinUp:   2, PinDown: 18, PinLeft: 16, PinRight: 20, PinCenter: 3,
		},
		Buttons: ButtonsConfig{
			Present: true,
			PinA:    15, PinB: 17, PinX: 19, PinY: 21,
		},
		Battery: BatteryConfig{Present: true, I2CBus: "/dev/i2c-0", Addr: 0x36},
	},
	"geekpi-3.5": {
		ID:   "geekpi-3.5",
		Name: "GeeekPi 3.5inch",
		Display: DisplayConfig{
			Controller:   ControllerILI9488,
			Width:        320,
			Height:       480,
			Rotation:     0,
			SPIBus:       "SPI1.0",
			SPIHz:        40000000,
			PinChip:      "/dev/gpiochip0",
			PinReset:     7,
			PinDC:        6,
			PinBacklight: -1,
		},
		Buttons: ButtonsConfig{
			Present: true,
			PinA:    14, PinB: 15, PinX: -1, PinY: -1,
		},
		Touch: TouchConfig{
			Present: true,
			Device:  "/dev/input/event0",
			Width:   320,
			Height:  480,
		},
	},
}

// Resolve returns a validated copy of the variant description.
func Resolve(id string) (*Profile, error) {
	p, ok := table[id]
	if !ok {
		return nil, types.NewConfigError("unknown hardware id=%q supported=%v", id, IDs())
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func IDs() []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p *Profile) validate() error {
	d := &p.Display
	if d.Controller == "" {
		return types.NewConfigError("profile %s: display controller empty", p.ID)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return types.NewConfigError("profile %s: display size %dx%d", p.ID, d.Width, d.Height)
	}
	switch d.Rotation {
	case 0, 90, 180, 270:
	default:
		return types.NewConfigError("profile %s: rotation=%d", p.ID, d.Rotation)
	}
	if d.SPIBus == "" || d.SPIHz <= 0 {
		return types.NewConfigError("profile %s: spi bus=%q hz=%d", p.ID, d.SPIBus, d.SPIHz)
	}
	if d.PinChip == "" {
		return types.NewConfigError("profile %s: pin chip empty", p.ID)
	}
	if !p.Joystick.Present && !p.Touch.Present && !p.Buttons.Present {
		return types.NewConfigError("profile %s: no input source", p.ID)
	}
	if p.Touch.Present {
		if p.Touch.Device == "" {
			return types.NewConfigError("profile %s: touch device empty", p.ID)
		}
		if p.Touch.Width <= 0 || p.Touch.Height <= 0 {
			return types.NewConfigError("profile %s: touch size %dx%d", p.ID, p.Touch.Width, p.Touch.Height)
		}
	}
	return nil
}
