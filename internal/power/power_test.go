package power

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/log2"
)

func testMachine(t testing.TB, cfg Config) *Machine {
	return NewMachine(log2.NewTest(t, log2.LDebug), cfg)
}

func btnEvent(b types.Button) types.InputEvent {
	return types.InputEvent{Kind: types.InputButton, Btn: b}
}

func TestIdleThenSleep(t *testing.T) {
	t.Parallel()

	m := testMachine(t, Config{IdleAfter: 60 * time.Second, SleepAfter: 120 * time.Second})
	t0 := time.Unix(1000, 0)

	from, to := m.Tick(t0)
	assert.Equal(t, Active, from)
	assert.Equal(t, Active, to)

	_, to = m.Tick(t0.Add(59 * time.Second))
	assert.Equal(t, Active, to)

	from, to = m.Tick(t0.Add(60 * time.Second))
	assert.Equal(t, Active, from)
	assert.Equal(t, Idle, to)

	_, to = m.Tick(t0.Add(119 * time.Second))
	assert.Equal(t, Idle, to)

	from, to = m.Tick(t0.Add(120 * time.Second))
	assert.Equal(t, Idle, from)
	assert.Equal(t, Sleeping, to)

	// ticks never leave Sleeping
	_, to = m.Tick(t0.Add(time.Hour))
	assert.Equal(t, Sleeping, to)
}

func TestInputReturnsIdleToActive(t *testing.T) {
	t.Parallel()

	m := testMachine(t, Config{IdleAfter: 60 * time.Second, SleepAfter: 120 * time.Second})
	t0 := time.Unix(1000, 0)
	m.Tick(t0)
	m.Tick(t0.Add(61 * time.Second))
	assert.Equal(t, Idle, m.State())

	got := m.Notify(btnEvent(types.ButtonA), t0.Add(62*time.Second))
	assert.Equal(t, Active, got)

	// activity restarted the timer
	_, to := m.Tick(t0.Add(63 * time.Second))
	assert.Equal(t, Active, to)
}

func TestSleepButton(t *testing.T) {
	t.Parallel()

	m := testMachine(t, Config{
		IdleAfter:   60 * time.Second,
		SleepAfter:  120 * time.Second,
		SleepButton: types.ButtonY,
	})
	t0 := time.Unix(1000, 0)
	m.Tick(t0)

	assert.Equal(t, Sleeping, m.Notify(btnEvent(types.ButtonY), t0.Add(time.Second)))

	// other buttons behave normally after wake
	m.Wake(t0.Add(2 * time.Second))
	assert.Equal(t, Active, m.State())
	assert.Equal(t, Active, m.Notify(btnEvent(types.ButtonA), t0.Add(3*time.Second)))
}

func TestWakeRestartsTimers(t *testing.T) {
	t.Parallel()

	m := testMachine(t, Config{IdleAfter: 60 * time.Second, SleepAfter: 120 * time.Second})
	t0 := time.Unix(1000, 0)
	m.Tick(t0)
	m.Tick(t0.Add(200 * time.Second))
	assert.Equal(t, Sleeping, m.State())

	m.Wake(t0.Add(201 * time.Second))
	assert.Equal(t, Active, m.State())
	_, to := m.Tick(t0.Add(202 * time.Second))
	assert.Equal(t, Active, to)
	_, to = m.Tick(t0.Add(261 * time.Second))
	assert.Equal(t, Idle, to)
}

func TestTimersMeasureFromLastActivity(t *testing.T) {
	t.Parallel()

	m := testMachine(t, Config{IdleAfter: 60 * time.Second, SleepAfter: 120 * time.Second})
	t0 := time.Unix(1000, 0)
	m.Tick(t0)
	m.Notify(btnEvent(types.ButtonA), t0.Add(30*time.Second))

	// idle counts from the last activity stamp, not from boot
	_, to := m.Tick(t0.Add(89 * time.Second))
	assert.Equal(t, Active, to)
	_, to = m.Tick(t0.Add(90 * time.Second))
	assert.Equal(t, Idle, to)
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	m := testMachine(t, Config{})
	assert.Equal(t, DefaultIdleAfter, m.cfg.IdleAfter)
	assert.Equal(t, DefaultSleepAfter, m.cfg.SleepAfter)
}
