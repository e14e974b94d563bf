package ui

import (
	"sort"
	"time"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/internal/types"
)

const intentRowH = 36

// IntentPresenter is a vertical list ordered by what the owner most
// likely wants right now: time-of-day hints first, then the app used
// last, then the rest in registry order.
type IntentPresenter struct{}

// compile-time interface compliance test
var _ Presenter = IntentPresenter{}

func NewIntentPresenter() IntentPresenter { return IntentPresenter{} }

func (IntentPresenter) String() string { return StyleIntent }

func (IntentPresenter) Order(apps []types.AppDescriptor, lastApp string, now time.Time) []int {
	hour := now.Hour()
	score := func(a *types.AppDescriptor) int {
		s := 0
		if a.Morning && hour >= 5 && hour < 12 {
			s += 2
		}
		if a.Evening && hour >= 17 {
			s += 2
		}
		if lastApp != "" && a.ID == lastApp {
			s++
		}
		return s
	}
	order := make([]int, len(apps))
	for i := range apps {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return score(&apps[order[i]]) > score(&apps[order[j]])
	})
	return order
}

func (IntentPresenter) Draw(c *display.Canvas, v View) {
	c.Fill(display.Black)
	drawHeader(c, v)

	for pos, idx := range v.Order {
		app := v.Apps[idx]
		y := headerH + pos*intentRowH
		if y+intentRowH > c.Height() {
			break
		}
		if pos == v.Cursor {
			c.FillRect(0, y, c.Width(), intentRowH, display.DarkGray)
			c.DrawVLine(1, y, intentRowH, display.Cyan)
			c.DrawVLine(2, y, intentRowH, display.Cyan)
		}
		c.DrawTextScaled(string(app.Icon), 8, y+6, display.White, 3)
		c.DrawText(app.Name, 36, y+8, display.White)
		if pos == 0 {
			c.DrawText("suggested", c.Width()-display.TextWidth("suggested")-4, y+8, display.Gray)
		}
	}
	drawMsg(c, v.Msg)
}

func (IntentPresenter) Move(v View, d types.Direction) int {
	cur := v.Cursor
	next := cur
	switch d {
	case types.DirUp:
		next = cur - 1
	case types.DirDown:
		next = cur + 1
	}
	if next < 0 || next >= len(v.Order) {
		return cur
	}
	return next
}

func (IntentPresenter) Hit(v View, x, y int) int {
	if y < headerH {
		return -1
	}
	pos := (y - headerH) / intentRowH
	if pos >= len(v.Order) {
		return -1
	}
	return pos
}
