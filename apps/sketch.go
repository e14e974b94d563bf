package apps

import (
	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/internal/types"
)

const sketchStep = 4

// sketchApp is a tiny etch-a-sketch. Joystick moves the cursor, center
// toggles the pen, touch stamps dots, A clears, B exits. Drawing state
// lives in the app instance and is gone after unload, which is the point:
// relaunching gives a clean sheet.
type sketchApp struct {
	env   types.AppEnv
	sheet *display.Canvas // lazily sized from the first frame
	x, y  int
	pen   bool
	blink int
}

var _ types.Apper = new(sketchApp)

func newSketch(env types.AppEnv) (types.Apper, error) {
	return &sketchApp{env: env, pen: true}, nil
}

func (a *sketchApp) Init() error { return nil }

func (a *sketchApp) HandleInput(e types.InputEvent) (types.Control, error) {
	switch e.Kind {
	case types.InputDirection:
		a.move(e.Dir)
	case types.InputButton:
		switch e.Btn {
		case types.ButtonA:
			if a.sheet != nil {
				a.sheet.Fill(display.Black)
			}
		case types.ButtonB:
			return types.ControlExit, nil
		}
	case types.InputTouch:
		if a.sheet != nil {
			a.x, a.y = int(e.X), int(e.Y)
			a.sheet.FillRect(a.x-1, a.y-1, 3, 3, display.White)
		}
	}
	return types.ControlNone, nil
}

func (a *sketchApp) move(d types.Direction) {
	if d == types.DirCenter {
		a.pen = !a.pen
		return
	}
	if a.sheet == nil {
		return
	}
	switch d {
	case types.DirUp:
		a.y -= sketchStep
	case types.DirDown:
		a.y += sketchStep
	case types.DirLeft:
		a.x -= sketchStep
	case types.DirRight:
		a.x += sketchStep
	}
	if a.x < 0 {
		a.x = 0
	}
	if a.y < 0 {
		a.y = 0
	}
	if a.x >= a.sheet.Width() {
		a.x = a.sheet.Width() - 1
	}
	if a.y >= a.sheet.Height() {
		a.y = a.sheet.Height() - 1
	}
	if a.pen {
		a.sheet.FillRect(a.x-1, a.y-1, 3, 3, display.White)
	}
}

func (a *sketchApp) Draw(c *display.Canvas) error {
	if a.sheet == nil {
		a.sheet = display.NewCanvas(c.Width(), c.Height())
		a.x, a.y = c.Width()/2, c.Height()/2
	}
	copy(c.Pix(), a.sheet.Pix())

	// cursor blinks so it stays visible over its own ink
	a.blink++
	if a.blink%16 < 8 {
		cur := display.Cyan
		if !a.pen {
			cur = display.DarkGray
		}
		c.Rect(a.x-2, a.y-2, 5, 5, cur)
	}
	return nil
}
