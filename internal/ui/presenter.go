package ui

import (
	"time"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/internal/types"
)

// View is everything a presentation strategy needs for one frame.
type View struct {
	Apps   []types.AppDescriptor
	Order  []int // indexes into Apps, display order
	Cursor int   // position within Order
	W, H   int   // logical display size
	Msg    string
	Owner  string
	Clock  time.Time
}

// Presenter is one launcher presentation strategy. It decides display
// order, paints the screen and maps input geometry back to entries; it
// never launches or owns apps.
type Presenter interface {
	String() string
	Order(apps []types.AppDescriptor, lastApp string, now time.Time) []int
	Draw(c *display.Canvas, v View)
	// Move returns the cursor after a direction step, unchanged at edges.
	Move(v View, d types.Direction) int
	// Hit maps a touch point to an entry position, -1 on background.
	Hit(v View, x, y int) int
}

const (
	headerH = 24
	msgH    = 14
)

func drawHeader(c *display.Canvas, v View) {
	c.FillRect(0, 0, c.Width(), headerH, display.DarkGray)
	greet := "Hello"
	if v.Owner != "" {
		greet = "Hello, " + v.Owner
	}
	c.DrawText(greet, 4, 8, display.White)
	clock := v.Clock.Format("15:04")
	c.DrawText(clock, c.Width()-display.TextWidth(clock)-4, 8, display.White)
}

func drawMsg(c *display.Canvas, msg string) {
	if msg == "" {
		return
	}
	y := c.Height() - msgH
	c.FillRect(0, y, c.Width(), msgH, display.Red)
	c.DrawText(msg, 4, y+3, display.White)
}
