package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketpal/pocketpal/internal/types"
)

func TestResolveKnown(t *testing.T) {
	t.Parallel()

	p, err := Resolve("waveshare-1.3")
	require.NoError(t, err)
	assert.True(t, p.SupportsJoystick())
	assert.False(t, p.SupportsTouch())
	w, h := p.DisplayDimensions()
	assert.Equal(t, 240, w)
	assert.Equal(t, 240, h)
	assert.Equal(t, ControllerST7789, p.Display.Controller)

	p2, err := Resolve("geekpi-3.5")
	require.NoError(t, err)
	assert.True(t, p2.SupportsTouch())
	assert.False(t, p2.SupportsJoystick())
	w2, h2 := p2.DisplayDimensions()
	assert.Equal(t, 320, w2)
	assert.Equal(t, 480, h2)
}

func TestResolveUnknownIsConfigError(t *testing.T) {
	t.Parallel()

	p, err := Resolve("FOO")
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, types.IsConfigError(err))
	assert.Contains(t, err.Error(), "FOO")
}

func TestResolveReturnsCopy(t *testing.T) {
	t.Parallel()

	p1, err := Resolve("waveshare-1.3")
	require.NoError(t, err)
	p1.Display.Width = 1
	p2, err := Resolve("waveshare-1.3")
	require.NoError(t, err)
	assert.Equal(t, 240, p2.Display.Width)
}

func TestRotatedDimensions(t *testing.T) {
	t.Parallel()

	p, err := Resolve("geekpi-3.5")
	require.NoError(t, err)
	p.Display.Rotation = 90
	w, h := p.DisplayDimensions()
	assert.Equal(t, 480, w)
	assert.Equal(t, 320, h)
}

func TestValidateCatchesBrokenEntry(t *testing.T) {
	t.Parallel()

	p := Profile{ID: "broken"}
	err := p.validate()
	require.Error(t, err)
	assert.True(t, types.IsConfigError(err))
}
