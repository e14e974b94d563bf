package apps

import (
	"fmt"
	"runtime"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/internal/types"
)

// aboutApp shows firmware and runtime info. Also the smallest possible
// example of the app contract.
type aboutApp struct {
	env     types.AppEnv
	version string
}

var _ types.Apper = new(aboutApp)

func newAbout(env types.AppEnv, version string) (types.Apper, error) {
	return &aboutApp{env: env, version: version}, nil
}

func (a *aboutApp) Init() error {
	a.env.Logf("about init")
	return nil
}

func (a *aboutApp) HandleInput(e types.InputEvent) (types.Control, error) {
	if e.Kind == types.InputButton && e.Btn == types.ButtonB {
		return types.ControlExit, nil
	}
	if e.Kind == types.InputTouch {
		return types.ControlExit, nil
	}
	return types.ControlNone, nil
}

func (a *aboutApp) Draw(c *display.Canvas) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.Fill(display.Black)
	c.DrawTextScaled("About", 8, 8, display.Cyan, 2)
	lines := []string{
		"version " + a.version,
		fmt.Sprintf("go %s", runtime.Version()),
		fmt.Sprintf("heap %d KiB", mem.HeapAlloc/1024),
		fmt.Sprintf("screen %dx%d", c.Width(), c.Height()),
		"",
		"B to exit",
	}
	y := 34
	for _, s := range lines {
		c.DrawText(s, 8, y, display.White)
		y += 12
	}
	return nil
}
