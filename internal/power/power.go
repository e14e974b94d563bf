// Package power tracks the Active/Idle/Sleeping ladder from input activity.
// The machine only decides state; dimming and redraw side effects belong to
// the loop that drives it.
package power

import (
	"fmt"
	"time"

	"github.com/temoto/atomic_clock"

	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/log2"
)

type State byte

const (
	Active State = iota
	Idle
	Sleeping
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Idle:
		return "idle"
	case Sleeping:
		return "sleeping"
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

type Config struct {
	IdleAfter  time.Duration // T1: no input for this long leaves Active
	SleepAfter time.Duration // T2 > T1: no input for this long leaves Idle
	// SleepButton, when not ButtonNone, forces Sleeping immediately.
	SleepButton types.Button
}

const (
	DefaultIdleAfter  = 60 * time.Second
	DefaultSleepAfter = 120 * time.Second
)

type Machine struct {
	log   *log2.Log
	cfg   Config
	state State
	last  atomic_clock.Clock // wall clock of most recent input activity
}

func NewMachine(log *log2.Log, cfg Config) *Machine {
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = DefaultIdleAfter
	}
	if cfg.SleepAfter <= cfg.IdleAfter {
		cfg.SleepAfter = cfg.IdleAfter + DefaultSleepAfter - DefaultIdleAfter
	}
	return &Machine{log: log, cfg: cfg}
}

func (m *Machine) State() State { return m.state }

// Notify records input activity. Any input returns Idle to Active; the
// sleep button is the one exception and forces Sleeping instead. Returns
// the state after the event.
func (m *Machine) Notify(e types.InputEvent, now time.Time) State {
	if m.cfg.SleepButton != types.ButtonNone &&
		e.Kind == types.InputButton && e.Btn == m.cfg.SleepButton {
		m.transition(Sleeping, now)
		return m.state
	}
	m.last.Set(now.UnixNano())
	if m.state == Idle {
		m.transition(Active, now)
	}
	return m.state
}

// Tick advances the inactivity timers. Sleeping is never left here, only
// by Wake.
func (m *Machine) Tick(now time.Time) (from, to State) {
	from = m.state
	if m.state == Sleeping {
		return from, from
	}
	// first tick after boot starts the timers
	m.last.SetIfZero(now.UnixNano())
	// Clock exports no raw getter, Sub against a zero clock reads the stamp
	idle := time.Duration(now.UnixNano()) - m.last.Sub(atomic_clock.New())
	switch {
	case idle >= m.cfg.SleepAfter:
		m.transition(Sleeping, now)
	case idle >= m.cfg.IdleAfter:
		if m.state == Active {
			m.transition(Idle, now)
		}
	}
	return from, m.state
}

// Wake leaves Sleeping and restarts the inactivity timers.
func (m *Machine) Wake(now time.Time) {
	m.last.Set(now.UnixNano())
	if m.state == Sleeping {
		m.transition(Active, now)
	}
}

func (m *Machine) transition(to State, now time.Time) {
	if m.state == to {
		return
	}
	m.log.Debugf("power %s -> %s", m.state, to)
	m.state = to
	if to == Active {
		m.last.Set(now.UnixNano())
	}
}
