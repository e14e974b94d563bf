// Package types holds events and contracts shared across the core, kept
// separate to avoid import cycles between hardware and launcher packages.
package types

import (
	"fmt"
	"time"

	"github.com/pocketpal/pocketpal/hardware/display"
)

type InputKind byte

const (
	InputNothing InputKind = iota
	InputDirection
	InputButton
	InputTouch
	InputTimeout
)

func (k InputKind) String() string {
	switch k {
	case InputNothing:
		return "nothing"
	case InputDirection:
		return "direction"
	case InputButton:
		return "button"
	case InputTouch:
		return "touch"
	case InputTimeout:
		return "timeout"
	}
	return fmt.Sprintf("InputKind(%d)", byte(k))
}

type Direction byte

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
	DirCenter
)

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirCenter:
		return "center"
	}
	return fmt.Sprintf("Direction(%d)", byte(d))
}

type Button byte

const (
	ButtonNone Button = iota
	ButtonA
	ButtonB
	ButtonX
	ButtonY
)

func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonX:
		return "X"
	case ButtonY:
		return "Y"
	}
	return fmt.Sprintf("Button(%d)", byte(b))
}

// InputEvent is one normalized input sample. X,Y are logical display
// coordinates, only meaningful for InputTouch.
type InputEvent struct {
	Kind   InputKind
	Source string
	Dir    Direction
	Btn    Button
	X, Y   int16
	At     time.Time
}

func (e *InputEvent) IsNothing() bool { return e.Kind == InputNothing }

// IsWake reports whether this event qualifies to leave Sleeping.
// Touch is not wake-capable: the panel is powered down with the display.
func (e *InputEvent) IsWake() bool {
	return e.Kind == InputDirection || e.Kind == InputButton
}

// DebounceKey folds kind and code into one identity for repeat suppression.
func (e *InputEvent) DebounceKey() uint16 {
	code := byte(0)
	switch e.Kind {
	case InputDirection:
		code = byte(e.Dir)
	case InputButton:
		code = byte(e.Btn)
	}
	return uint16(e.Kind)<<8 | uint16(code)
}

func (e InputEvent) String() string {
	switch e.Kind {
	case InputDirection:
		return fmt.Sprintf("input{%s %s}", e.Kind, e.Dir)
	case InputButton:
		return fmt.Sprintf("input{%s %s}", e.Kind, e.Btn)
	case InputTouch:
		return fmt.Sprintf("input{touch %d,%d}", e.X, e.Y)
	}
	return fmt.Sprintf("input{%s}", e.Kind)
}

// Control is what an app's input handler returns to the launcher.
type Control byte

const (
	ControlNone Control = iota
	ControlExit
)

func (c Control) String() string {
	if c == ControlExit {
		return "exit"
	}
	return "none"
}

// Apper is the whole contract between the core and an app module.
// The core never inspects app state beyond these three operations.
type Apper interface {
	Init() error
	HandleInput(e InputEvent) (Control, error)
	Draw(c *display.Canvas) error
}

// AppEnv is handed to app factories. DataDir is the app's private
// directory; the core never reads or parses its contents.
type AppEnv struct {
	DataDir  string
	TZOffset time.Duration
	Logf     func(format string, args ...interface{})
}

type AppFactory func(env AppEnv) (Apper, error)

// AppDescriptor is one read-only registry entry, immutable after boot.
type AppDescriptor struct {
	ID      string
	Name    string
	Icon    rune
	Morning bool // suggestion hints for the intent launcher
	Evening bool
	New     AppFactory
}
