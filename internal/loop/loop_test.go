package loop

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/hardware/input"
	"github.com/pocketpal/pocketpal/internal/power"
	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/log2"
)

type stubUI struct {
	events  []types.InputEvent
	draws   int
	forced  int
	changed bool
}

func (u *stubUI) HandleEvents(evs []types.InputEvent, now time.Time) {
	u.events = append(u.events, evs...)
}

func (u *stubUI) Draw(now time.Time) bool {
	u.draws++
	return u.changed
}

func (u *stubUI) ForceRedraw() { u.forced++ }

type fixture struct {
	loop   *Loop
	mock   *display.MockDriver
	src    *input.ScriptSource
	ui     *stubUI
	power  *power.Machine
	poller *input.Poller
}

func newFixture(t *testing.T, pcfg power.Config) *fixture {
	log := log2.NewTest(t, log2.LDebug)
	disp, mock := display.NewMock(240, 240)
	src := &input.ScriptSource{}
	poller := input.NewPoller(log, input.PollerConfig{})
	poller.Register(src, true)
	pw := power.NewMachine(log, pcfg)
	u := &stubUI{changed: true}
	l := New(log, alive.NewAlive(), disp, poller, pw, u, Config{GCEvery: 4})
	return &fixture{loop: l, mock: mock, src: src, ui: u, power: pw, poller: poller}
}

func btn(b types.Button) types.InputEvent {
	return types.InputEvent{Kind: types.InputButton, Btn: b}
}

func TestStepDeliversInputAndPresents(t *testing.T) {
	t.Parallel()

	f := newFixture(t, power.Config{})
	f.src.Script = []types.InputEvent{btn(types.ButtonA)}
	now := time.Unix(1000, 0)

	require.NoError(t, f.loop.step(now))
	require.Len(t, f.ui.events, 1)
	assert.Equal(t, types.ButtonA, f.ui.events[0].Btn)
	assert.Equal(t, 1, f.ui.draws)
	assert.Len(t, f.mock.Frames, 1)
}

func TestStepSkipsPresentWhenUnchanged(t *testing.T) {
	t.Parallel()

	f := newFixture(t, power.Config{})
	f.ui.changed = false
	require.NoError(t, f.loop.step(time.Unix(1000, 0)))
	assert.Equal(t, 1, f.ui.draws)
	assert.Empty(t, f.mock.Frames)
}

func TestInactivityEntersSleep(t *testing.T) {
	t.Parallel()

	f := newFixture(t, power.Config{IdleAfter: 60 * time.Second, SleepAfter: 120 * time.Second})
	t0 := time.Unix(1000, 0)
	require.NoError(t, f.loop.step(t0))
	require.NoError(t, f.loop.step(t0.Add(121*time.Second)))

	assert.Equal(t, power.Sleeping, f.power.State())
	// the sleep frame went out, then the backlight dropped
	require.NotEmpty(t, f.mock.Frames)
	require.NotEmpty(t, f.mock.Backlight)
	assert.False(t, f.mock.Backlight[len(f.mock.Backlight)-1])
}

func TestSleepButtonEntersSleepWithoutDelivery(t *testing.T) {
	t.Parallel()

	f := newFixture(t, power.Config{SleepButton: types.ButtonY})
	f.src.Script = []types.InputEvent{btn(types.ButtonY)}
	require.NoError(t, f.loop.step(time.Unix(1000, 0)))

	assert.Equal(t, power.Sleeping, f.power.State())
	assert.Empty(t, f.ui.events) // consumed by power, not the app
}

func TestWakeRedrawsEverything(t *testing.T) {
	t.Parallel()

	f := newFixture(t, power.Config{IdleAfter: 60 * time.Second, SleepAfter: 120 * time.Second})
	t0 := time.Unix(1000, 0)
	require.NoError(t, f.loop.step(t0))
	require.NoError(t, f.loop.step(t0.Add(121*time.Second)))
	require.Equal(t, power.Sleeping, f.power.State())

	// no wake input: stays asleep, nothing painted
	frames := len(f.mock.Frames)
	require.NoError(t, f.loop.step(t0.Add(122*time.Second)))
	assert.Equal(t, power.Sleeping, f.power.State())
	assert.Len(t, f.mock.Frames, frames)

	f.src.Script = append(f.src.Script, btn(types.ButtonA))
	require.NoError(t, f.loop.step(t0.Add(123*time.Second)))
	assert.Equal(t, power.Active, f.power.State())
	assert.Equal(t, 1, f.ui.forced)
	assert.True(t, f.mock.Backlight[len(f.mock.Backlight)-1])
	assert.Len(t, f.mock.Frames, frames+1)
}

func TestIdleTransitionEmitsTimeout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, power.Config{IdleAfter: 60 * time.Second, SleepAfter: 120 * time.Second})
	t0 := time.Unix(1000, 0)
	require.NoError(t, f.loop.step(t0))
	require.NoError(t, f.loop.step(t0.Add(61*time.Second)))

	assert.Equal(t, power.Idle, f.power.State())
	require.Len(t, f.ui.events, 1)
	assert.Equal(t, types.InputTimeout, f.ui.events[0].Kind)
}

func TestPresentFailureIsFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t, power.Config{})
	f.mock.PresentErr = errors.New("spi gone")
	err := f.loop.step(time.Unix(1000, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spi gone")
}

func TestPeriodicGC(t *testing.T) {
	t.Parallel()

	f := newFixture(t, power.Config{})
	now := time.Unix(1000, 0)
	for i := 0; i < 8; i++ {
		require.NoError(t, f.loop.step(now.Add(time.Duration(i)*time.Second)))
	}
	assert.Equal(t, 8, f.loop.ticks)
}
