// Package loop drives the device: one cooperative cycle of poll, power
// accounting, app logic, render. Everything here runs on a single
// goroutine; hardware and UI code never need locks.
package loop

import (
	"runtime"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/hardware/input"
	"github.com/pocketpal/pocketpal/internal/power"
	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/internal/ui"
	"github.com/pocketpal/pocketpal/log2"
)

// UI is what the loop needs from the launcher.
type UI interface {
	HandleEvents(evs []types.InputEvent, now time.Time)
	Draw(now time.Time) bool
	ForceRedraw()
}

type Config struct {
	Tick      time.Duration
	SleepTick time.Duration
	GCEvery   int // ticks between forced collections
}

type Loop struct {
	log    *log2.Log
	alive  *alive.Alive
	disp   *display.Display
	poller *input.Poller
	power  *power.Machine
	ui     UI
	cfg    Config

	ticks int
	err   error
}

func New(log *log2.Log, a *alive.Alive, disp *display.Display, poller *input.Poller, pw *power.Machine, u UI, cfg Config) *Loop {
	if cfg.Tick <= 0 {
		cfg.Tick = 20 * time.Millisecond
	}
	if cfg.SleepTick <= 0 {
		cfg.SleepTick = 250 * time.Millisecond
	}
	if cfg.GCEvery <= 0 {
		cfg.GCEvery = 256
	}
	return &Loop{
		log:    log,
		alive:  a,
		disp:   disp,
		poller: poller,
		power:  pw,
		ui:     u,
		cfg:    cfg,
	}
}

// Run blocks until Stop or a fatal display error. On fatal error it stops
// the whole process via alive.
func (l *Loop) Run() {
	l.alive.Add(1)
	defer l.alive.Done()

	for {
		now := time.Now()
		if err := l.step(now); err != nil {
			l.log.Errorf("loop fatal %s", errors.ErrorStack(err))
			l.err = err
			l.alive.Stop()
			return
		}
		d := l.cfg.Tick
		if l.power.State() == power.Sleeping {
			d = l.cfg.SleepTick
		}
		select {
		case <-l.alive.StopChan():
			return
		case <-time.After(d):
		}
	}
}

// Err returns the fatal error that stopped Run, nil after a clean stop.
func (l *Loop) Err() error { return l.err }

// step is one full cycle, separated from Run for tests with injected time.
func (l *Loop) step(now time.Time) error {
	if l.power.State() == power.Sleeping {
		return l.stepSleeping(now)
	}

	evs := l.poller.PollTick(now)
	for i := range evs {
		if l.power.Notify(evs[i], now) == power.Sleeping {
			return l.enterSleep(now)
		}
	}
	from, to := l.power.Tick(now)
	if to == power.Sleeping {
		return l.enterSleep(now)
	}
	if from == power.Active && to == power.Idle {
		// apps see inactivity as an event and may dim or pause
		evs = append(evs, types.InputEvent{Kind: types.InputTimeout, At: now})
	}

	l.ui.HandleEvents(evs, now)
	if l.ui.Draw(now) {
		if err := l.disp.Present(); err != nil {
			return errors.Annotate(err, "present")
		}
	}

	l.ticks++
	if l.ticks%l.cfg.GCEvery == 0 {
		runtime.GC()
	}
	return nil
}

func (l *Loop) stepSleeping(now time.Time) error {
	if !l.poller.PollWake(now) {
		return nil
	}
	l.log.Debugf("loop wake")
	l.power.Wake(now)
	if err := l.disp.SetBacklight(true); err != nil {
		return errors.Annotate(err, "wake backlight")
	}
	// panel RAM may hold the sleep frame, repaint everything
	l.ui.ForceRedraw()
	l.ui.Draw(now)
	return errors.Annotate(l.disp.Present(), "wake present")
}

func (l *Loop) enterSleep(now time.Time) error {
	l.log.Debugf("loop sleep")
	ui.DrawSleep(l.disp.Canvas(), now)
	if err := l.disp.Present(); err != nil {
		return errors.Annotate(err, "sleep present")
	}
	return errors.Annotate(l.disp.SetBacklight(false), "sleep backlight")
}
