// Package input normalizes hardware input sources into events.
// Sources are polled cooperatively from the main loop, there is no
// reader goroutine per device.
package input

import (
	"time"

	"github.com/juju/errors"

	"github.com/pocketpal/pocketpal/helpers"
	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/log2"
)

const (
	DefaultDebounce   = 150 * time.Millisecond
	defaultMaxPerTick = 8
)

type Source interface {
	// Poll returns the next pending event or an event with Kind=InputNothing.
	// It must never block.
	Poll(now time.Time) (types.InputEvent, error)
	String() string
	Close() error
}

type PollerConfig struct {
	Debounce   time.Duration
	MaxPerTick int // per-source drain bound, keeps one chatty device from starving the loop
}

type registered struct {
	src  Source
	wake bool
}

// Poller owns all input sources. A source that starts returning errors is
// logged and skipped for the tick; the device keeps running without it.
type Poller struct {
	log  *log2.Log
	cfg  PollerConfig
	srcs []registered
	last map[uint16]time.Time
}

func NewPoller(log *log2.Log, cfg PollerConfig) *Poller {
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.MaxPerTick <= 0 {
		cfg.MaxPerTick = defaultMaxPerTick
	}
	return &Poller{
		log:  log,
		cfg:  cfg,
		last: make(map[uint16]time.Time, 16),
	}
}

func (p *Poller) Register(src Source, wake bool) {
	p.srcs = append(p.srcs, registered{src: src, wake: wake})
}

func (p *Poller) Sources() int { return len(p.srcs) }

// PollTick drains all sources once and returns debounced events in
// source registration order.
func (p *Poller) PollTick(now time.Time) []types.InputEvent {
	var out []types.InputEvent
	for _, r := range p.srcs {
		for i := 0; i < p.cfg.MaxPerTick; i++ {
			e, err := r.src.Poll(now)
			if err != nil {
				p.log.Debugf("input source=%s err=%v", r.src.String(), err)
				break
			}
			if e.IsNothing() {
				break
			}
			if p.debounced(&e, now) {
				continue
			}
			out = append(out, e)
		}
	}
	return out
}

// PollWake drains only wake-capable sources and reports whether any event
// qualifies to leave sleep. Events seen here are consumed, not delivered.
func (p *Poller) PollWake(now time.Time) bool {
	woke := false
	for _, r := range p.srcs {
		if !r.wake {
			continue
		}
		for i := 0; i < p.cfg.MaxPerTick; i++ {
			e, err := r.src.Poll(now)
			if err != nil {
				p.log.Debugf("input source=%s err=%v", r.src.String(), err)
				break
			}
			if e.IsNothing() {
				break
			}
			if e.IsWake() && !p.debounced(&e, now) {
				woke = true
			}
		}
	}
	return woke
}

// debounced suppresses repeats of the same digital control inside the
// debounce window. Touch carries coordinates and is never suppressed.
func (p *Poller) debounced(e *types.InputEvent, now time.Time) bool {
	if e.Kind != types.InputDirection && e.Kind != types.InputButton {
		return false
	}
	key := e.DebounceKey()
	if prev, ok := p.last[key]; ok && now.Sub(prev) < p.cfg.Debounce {
		return true
	}
	p.last[key] = now
	return false
}

func (p *Poller) Close() error {
	errs := make([]error, 0, len(p.srcs))
	for _, r := range p.srcs {
		if err := r.src.Close(); err != nil {
			errs = append(errs, errors.Annotatef(err, "input close source=%s", r.src.String()))
		}
	}
	return helpers.FoldErrors(errs)
}
