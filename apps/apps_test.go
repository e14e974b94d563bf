package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/internal/types"
)

func testEnv(t testing.TB) types.AppEnv {
	return types.AppEnv{
		DataDir: t.TempDir(),
		Logf:    t.Logf,
	}
}

func TestRegistryContract(t *testing.T) {
	t.Parallel()

	reg := Registry("test")
	require.NotEmpty(t, reg)
	seen := map[string]bool{}
	for _, d := range reg {
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Name)
		assert.NotNil(t, d.New)
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true

		// every built-in must construct, init and draw cleanly
		app, err := d.New(testEnv(t))
		require.NoError(t, err, d.ID)
		require.NoError(t, app.Init(), d.ID)
		c := display.NewCanvas(240, 240)
		require.NoError(t, app.Draw(c), d.ID)
	}
}

func TestAppsExitOnB(t *testing.T) {
	t.Parallel()

	for _, d := range Registry("test") {
		app, err := d.New(testEnv(t))
		require.NoError(t, err)
		require.NoError(t, app.Init())
		ctl, err := app.HandleInput(types.InputEvent{Kind: types.InputButton, Btn: types.ButtonB})
		require.NoError(t, err, d.ID)
		assert.Equal(t, types.ControlExit, ctl, d.ID)
	}
}

func TestSketchDrawsInk(t *testing.T) {
	t.Parallel()

	app, err := newSketch(testEnv(t))
	require.NoError(t, err)
	require.NoError(t, app.Init())

	c := display.NewCanvas(64, 64)
	require.NoError(t, app.Draw(c)) // sizes the sheet, centers the cursor

	// pen is down, moving leaves ink
	_, err = app.HandleInput(types.InputEvent{Kind: types.InputDirection, Dir: types.DirRight})
	require.NoError(t, err)
	require.NoError(t, app.Draw(c))
	assert.Equal(t, display.White, c.At(32+sketchStep, 32))

	// A clears the sheet
	_, err = app.HandleInput(types.InputEvent{Kind: types.InputButton, Btn: types.ButtonA})
	require.NoError(t, err)
	require.NoError(t, app.Draw(c))
	assert.Equal(t, display.Black, c.At(32+sketchStep, 32))
}

func TestSketchTouchStampsDot(t *testing.T) {
	t.Parallel()

	app, err := newSketch(testEnv(t))
	require.NoError(t, err)
	c := display.NewCanvas(64, 64)
	require.NoError(t, app.Draw(c))

	_, err = app.HandleInput(types.InputEvent{Kind: types.InputTouch, X: 10, Y: 12})
	require.NoError(t, err)
	require.NoError(t, app.Draw(c))
	assert.Equal(t, display.White, c.At(10, 12))
}

func TestSketchStateDoesNotSurviveRelaunch(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	app, _ := newSketch(env)
	c := display.NewCanvas(64, 64)
	require.NoError(t, app.Draw(c))
	_, _ = app.HandleInput(types.InputEvent{Kind: types.InputTouch, X: 5, Y: 5})

	fresh, _ := newSketch(env)
	require.NoError(t, fresh.Draw(c))
	assert.Equal(t, display.Black, c.At(5, 5))
}
