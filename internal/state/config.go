package state

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"

	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/log2"
)

// Config is the firmware tuning file, HCL, shipped with the image. Owners
// edit the boot config; this one is for developers. Missing file is fine,
// every field has a default.
type Config struct {
	Boot struct {
		File string `hcl:"file"`
	} `hcl:"boot"`

	Display struct {
		// override the profile SPI clock, 0 keeps the profile value
		SPIHz int64 `hcl:"spi_hz"`
	} `hcl:"display"`

	Input struct {
		DebounceMs int `hcl:"debounce_ms"`
		MaxPerTick int `hcl:"max_per_tick"`
		// override the profile touch device path
		TouchDevice string `hcl:"touch_device"`
	} `hcl:"input"`

	Power struct {
		IdleSec     int    `hcl:"idle_sec"`
		SleepSec    int    `hcl:"sleep_sec"`
		SleepButton string `hcl:"sleep_button"`
	} `hcl:"power"`

	Loop struct {
		TickMs      int `hcl:"tick_ms"`
		SleepTickMs int `hcl:"sleep_tick_ms"`
		GCEvery     int `hcl:"gc_every"`
	} `hcl:"loop"`

	UI struct {
		Style       string `hcl:"style"`
		MsgLoadFail string `hcl:"msg_load_fail"`
		MsgAppFail  string `hcl:"msg_app_fail"`
		MsgSec      int    `hcl:"msg_sec"`
	} `hcl:"ui"`

	Persist struct {
		Root string `hcl:"root"`
	} `hcl:"persist"`
}

func (c *Config) SetDefaults() {
	if c.Boot.File == "" {
		c.Boot.File = "/boot/pocketpal.txt"
	}
	if c.Input.DebounceMs <= 0 {
		c.Input.DebounceMs = 150
	}
	if c.Power.IdleSec <= 0 {
		c.Power.IdleSec = 60
	}
	if c.Power.SleepSec <= 0 {
		c.Power.SleepSec = 120
	}
	if c.Loop.TickMs <= 0 {
		c.Loop.TickMs = 20
	}
	if c.Loop.SleepTickMs <= 0 {
		c.Loop.SleepTickMs = 250
	}
	if c.Loop.GCEvery <= 0 {
		c.Loop.GCEvery = 256
	}
	if c.UI.Style == "" {
		c.UI.Style = "grid"
	}
	if c.UI.MsgSec <= 0 {
		c.UI.MsgSec = 4
	}
	if c.Persist.Root == "" {
		c.Persist.Root = "/var/lib/pocketpal"
	}
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Input.DebounceMs) * time.Millisecond
}

func (c *Config) IdleAfter() time.Duration { return time.Duration(c.Power.IdleSec) * time.Second }

func (c *Config) SleepAfter() time.Duration { return time.Duration(c.Power.SleepSec) * time.Second }

func (c *Config) Tick() time.Duration { return time.Duration(c.Loop.TickMs) * time.Millisecond }

func (c *Config) SleepTick() time.Duration {
	return time.Duration(c.Loop.SleepTickMs) * time.Millisecond
}

func (c *Config) MsgDuration() time.Duration { return time.Duration(c.UI.MsgSec) * time.Second }

// SleepButton maps the config name to the button code, ButtonNone when unset.
func (c *Config) SleepButton() types.Button {
	switch c.Power.SleepButton {
	case "A":
		return types.ButtonA
	case "B":
		return types.ButtonB
	case "X":
		return types.ButtonX
	case "Y":
		return types.ButtonY
	}
	return types.ButtonNone
}

// ReadConfig loads path on top of defaults. A missing file is logged and
// ignored; a file that exists but does not parse is a ConfigError.
func ReadConfig(log *log2.Log, path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		bs, err := ioutil.ReadFile(path)
		switch {
		case err == nil:
			if err = hcl.Unmarshal(bs, c); err != nil {
				return nil, types.WrapConfig(err, "config parse "+path)
			}
		case os.IsNotExist(err):
			log.Infof("config path=%s not found, using defaults", path)
		default:
			return nil, types.WrapConfig(errors.Trace(err), "config read "+path)
		}
	}
	c.SetDefaults()
	return c, nil
}
