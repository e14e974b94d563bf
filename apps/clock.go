package apps

import (
	"time"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/internal/types"
)

// clockApp is a big wall clock in device-local time. The device has no
// timezone database, only the boot config offset.
type clockApp struct {
	env types.AppEnv
}

var _ types.Apper = new(clockApp)

func newClock(env types.AppEnv) (types.Apper, error) {
	return &clockApp{env: env}, nil
}

func (a *clockApp) Init() error { return nil }

func (a *clockApp) HandleInput(e types.InputEvent) (types.Control, error) {
	switch e.Kind {
	case types.InputButton:
		if e.Btn == types.ButtonB {
			return types.ControlExit, nil
		}
	case types.InputTouch:
		return types.ControlExit, nil
	}
	return types.ControlNone, nil
}

func (a *clockApp) now() time.Time {
	return time.Now().UTC().Add(a.env.TZOffset)
}

func (a *clockApp) Draw(c *display.Canvas) error {
	now := a.now()
	c.Fill(display.Black)
	hm := now.Format("15:04")
	scale := 5
	w := display.TextWidth(hm) * scale
	c.DrawTextScaled(hm, (c.Width()-w)/2, c.Height()/2-30, display.White, scale)
	date := now.Format("Mon Jan 2")
	c.DrawText(date, (c.Width()-display.TextWidth(date))/2, c.Height()/2+20, display.Gray)
	return nil
}
