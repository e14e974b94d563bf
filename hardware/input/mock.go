package input

import (
	"time"

	"github.com/pocketpal/pocketpal/internal/types"
)

// ScriptSource replays a fixed event sequence, one per Poll. Tests only.
type ScriptSource struct {
	Tag    string
	Script []types.InputEvent
	Err    error
	Closed bool
	pos    int
}

// compile-time interface compliance test
var _ Source = new(ScriptSource)

func (s *ScriptSource) String() string {
	if s.Tag == "" {
		return "script"
	}
	return s.Tag
}

func (s *ScriptSource) Poll(now time.Time) (types.InputEvent, error) {
	if s.Err != nil {
		return types.InputEvent{}, s.Err
	}
	if s.pos >= len(s.Script) {
		return types.InputEvent{}, nil
	}
	e := s.Script[s.pos]
	s.pos++
	if e.At.IsZero() {
		e.At = now
	}
	return e, nil
}

func (s *ScriptSource) Close() error {
	s.Closed = true
	return nil
}
