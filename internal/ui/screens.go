package ui

import (
	"time"

	"github.com/pocketpal/pocketpal/hardware/display"
)

// Full-screen service frames outside the launcher flow. Callers present.

func DrawBootSplash(c *display.Canvas, owner, version string) {
	c.Fill(display.Black)
	title := "pocketpal"
	c.DrawTextScaled(title, c.Width()/2-display.TextWidth(title)*3/2, c.Height()/2-20, display.Cyan, 3)
	if owner != "" {
		hello := "hi " + owner
		c.DrawText(hello, c.Width()/2-display.TextWidth(hello)/2, c.Height()/2+16, display.White)
	}
	c.DrawText(version, 4, c.Height()-12, display.DarkGray)
}

// DrawSleep paints the last frame before the panel goes dark, so that a
// backlight glitch shows something sane instead of stale app content.
func DrawSleep(c *display.Canvas, now time.Time) {
	c.Fill(display.Black)
	clock := now.Format("15:04")
	c.DrawTextScaled(clock, c.Width()/2-display.TextWidth(clock), c.Height()/2-7, display.DarkGray, 2)
}

// DrawFatal is the terminal diagnostic screen for unrecoverable boot or
// display errors. Text only, nothing here may fail.
func DrawFatal(c *display.Canvas, msg string) {
	c.Fill(display.Black)
	c.FillRect(0, 0, c.Width(), 16, display.Red)
	c.DrawText("ERROR", 4, 4, display.White)
	y := 24
	for len(msg) > 0 && y < c.Height()-10 {
		cols := (c.Width() - 8) / 6
		if cols > len(msg) {
			cols = len(msg)
		}
		c.DrawText(msg[:cols], 4, y, display.White)
		msg = msg[cols:]
		y += 10
	}
}
