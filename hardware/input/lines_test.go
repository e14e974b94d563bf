package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gpio "github.com/temoto/gpio-cdev-go"

	"github.com/pocketpal/pocketpal/internal/types"
)

type fakeLines struct {
	values []gpio.HandleData
	pos    int
}

func (f *fakeLines) Read() (gpio.HandleData, error) {
	if f.pos >= len(f.values) {
		return f.values[len(f.values)-1], nil
	}
	v := f.values[f.pos]
	f.pos++
	return v, nil
}

func levels(vs ...byte) gpio.HandleData {
	d := gpio.HandleData{}
	copy(d.Values[:], vs)
	return d
}

func testJoystick(reads ...gpio.HandleData) *lineSource {
	dirEvent := func(d types.Direction) types.InputEvent {
		return types.InputEvent{Kind: types.InputDirection, Source: JoystickTag, Dir: d}
	}
	bind := []lineBinding{
		{2, dirEvent(types.DirUp)},
		{18, dirEvent(types.DirDown)},
		{16, dirEvent(types.DirLeft)},
		{20, dirEvent(types.DirRight)},
		{3, dirEvent(types.DirCenter)},
	}
	return &lineSource{
		tag:   JoystickTag,
		lines: &fakeLines{values: reads},
		bind:  bind,
		prev:  make([]byte, len(bind)),
	}
}

func TestLineSourceRisingEdge(t *testing.T) {
	t.Parallel()

	s := testJoystick(
		levels(1, 0, 0, 0, 0), // up pressed
		levels(1, 0, 0, 0, 0), // still held: no repeat
		levels(0, 0, 0, 0, 0), // released
		levels(1, 0, 0, 0, 1), // up and center together
	)
	now := time.Now()

	e, err := s.Poll(now)
	require.NoError(t, err)
	assert.Equal(t, types.DirUp, e.Dir)
	assert.Equal(t, now, e.At)

	e, err = s.Poll(now)
	require.NoError(t, err)
	assert.True(t, e.IsNothing())

	e, err = s.Poll(now)
	require.NoError(t, err)
	assert.True(t, e.IsNothing())

	// both edges are queued, delivered one per poll
	e, err = s.Poll(now)
	require.NoError(t, err)
	assert.Equal(t, types.DirUp, e.Dir)
	e, err = s.Poll(now)
	require.NoError(t, err)
	assert.Equal(t, types.DirCenter, e.Dir)
}
