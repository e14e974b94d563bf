package state

import (
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/hardware/display/ili9488"
	"github.com/pocketpal/pocketpal/hardware/display/st7789"
	"github.com/pocketpal/pocketpal/hardware/input"
	"github.com/pocketpal/pocketpal/hardware/profile"
	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/log2"
)

// Global is the usual single bag of wired parts, built once at boot.
type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Log          *log2.Log

	Boot    *BootConfig
	Config  *Config
	Profile *profile.Profile

	Hardware struct {
		Display *display.Display
		Input   *input.Poller
	}

	Prefs *Prefs
}

func NewGlobal(log *log2.Log, boot *BootConfig, config *Config) *Global {
	return &Global{
		Alive:  alive.NewAlive(),
		Log:    log,
		Boot:   boot,
		Config: config,
	}
}

// InitHardware resolves the profile and brings up the display and input.
// A display failure is fatal and returned; input sources degrade, the
// device runs with whatever input is left.
func (g *Global) InitHardware() error {
	p, err := profile.Resolve(g.Boot.HardwareID)
	if err != nil {
		return errors.Trace(err)
	}
	g.Profile = p
	g.Log.Infof("hardware profile=%s display=%s %dx%d", p.ID, p.Display.Controller, p.Display.Width, p.Display.Height)

	dcfg := p.Display
	if g.Config.Display.SPIHz > 0 {
		dcfg.SPIHz = g.Config.Display.SPIHz
	}
	var drv display.Driver
	switch dcfg.Controller {
	case profile.ControllerST7789:
		drv = st7789.New(dcfg, g.Log)
	case profile.ControllerILI9488:
		drv = ili9488.New(dcfg, g.Log)
	default:
		return types.NewConfigError("profile %s: unknown display controller=%q", p.ID, dcfg.Controller)
	}
	w, h := p.DisplayDimensions()
	disp, err := display.New(drv, w, h, g.Log)
	if err != nil {
		return errors.Annotate(err, "display init")
	}
	g.Hardware.Display = disp

	g.initInput()
	g.Prefs = NewPrefs(g.Log, g.Config.Persist.Root)
	if err := g.Prefs.Load(); err != nil {
		// preferences are comfort, not correctness
		g.Log.Errorf("prefs load err=%v", err)
	}
	return nil
}

func (g *Global) initInput() {
	p := g.Profile
	poller := input.NewPoller(g.Log, input.PollerConfig{
		Debounce:   g.Config.Debounce(),
		MaxPerTick: g.Config.Input.MaxPerTick,
	})

	if p.SupportsJoystick() {
		if src, err := input.NewJoystick(p.Display.PinChip, p.Joystick); err != nil {
			g.Log.Errorf("input joystick disabled err=%v", err)
		} else {
			poller.Register(src, true)
		}
	}
	if p.Buttons.Present {
		if src, err := input.NewButtons(p.Display.PinChip, p.Buttons); err != nil {
			g.Log.Errorf("input buttons disabled err=%v", err)
		} else {
			poller.Register(src, true)
		}
	}
	if p.SupportsTouch() {
		tcfg := p.Touch
		if g.Config.Input.TouchDevice != "" {
			tcfg.Device = g.Config.Input.TouchDevice
		}
		w, h := p.DisplayDimensions()
		if src, err := input.NewTouch(tcfg, p.Rotation(), w, h); err != nil {
			g.Log.Errorf("input touch disabled err=%v", err)
		} else {
			poller.Register(src, false)
		}
	}
	if poller.Sources() == 0 {
		g.Log.Errorf("input: all sources failed, device is display-only")
	}
	g.Hardware.Input = poller
}

// Stop releases hardware in reverse bring-up order.
func (g *Global) Stop() {
	g.Alive.Stop()
	if g.Hardware.Input != nil {
		if err := g.Hardware.Input.Close(); err != nil {
			g.Log.Errorf("input close err=%v", err)
		}
	}
	if g.Hardware.Display != nil {
		if err := g.Hardware.Display.Close(); err != nil {
			g.Log.Errorf("display close err=%v", err)
		}
	}
}
