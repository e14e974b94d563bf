package ui

import (
	"time"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/internal/types"
)

const (
	gridCols    = 3
	gridCellPad = 6
)

// GridPresenter is the classic icon grid in registry order.
type GridPresenter struct{}

// compile-time interface compliance test
var _ Presenter = GridPresenter{}

func NewGridPresenter() GridPresenter { return GridPresenter{} }

func (GridPresenter) String() string { return StyleGrid }

func (GridPresenter) Order(apps []types.AppDescriptor, lastApp string, now time.Time) []int {
	order := make([]int, len(apps))
	for i := range apps {
		order[i] = i
	}
	return order
}

// cellSize derives square cells from display width; both supported panels
// get usable targets this way.
func cellSize(w int) int { return w / gridCols }

func (GridPresenter) Draw(c *display.Canvas, v View) {
	c.Fill(display.Black)
	drawHeader(c, v)

	cell := cellSize(c.Width())
	for pos, idx := range v.Order {
		app := v.Apps[idx]
		col, row := pos%gridCols, pos/gridCols
		x, y := col*cell, headerH+row*cell

		if pos == v.Cursor {
			c.FillRect(x+1, y+1, cell-2, cell-2, display.DarkGray)
			c.Rect(x+1, y+1, cell-2, cell-2, display.Cyan)
		}
		icon := string(app.Icon)
		c.DrawTextScaled(icon, x+cell/2-display.TextWidth(icon)*2, y+gridCellPad+8, display.White, 4)
		name := app.Name
		c.DrawText(name, x+cell/2-display.TextWidth(name)/2, y+cell-14, display.Gray)
	}
	drawMsg(c, v.Msg)
}

func (GridPresenter) Move(v View, d types.Direction) int {
	cur := v.Cursor
	next := cur
	switch d {
	case types.DirLeft:
		next = cur - 1
	case types.DirRight:
		next = cur + 1
	case types.DirUp:
		next = cur - gridCols
	case types.DirDown:
		next = cur + gridCols
	}
	if next < 0 || next >= len(v.Order) {
		return cur
	}
	return next
}

func (GridPresenter) Hit(v View, x, y int) int {
	if y < headerH {
		return -1
	}
	cell := cellSize(v.W)
	if cell <= 0 {
		return -1
	}
	col, row := x/cell, (y-headerH)/cell
	if col >= gridCols {
		return -1
	}
	pos := row*gridCols + col
	if pos < 0 || pos >= len(v.Order) {
		return -1
	}
	return pos
}
