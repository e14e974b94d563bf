// Package apps holds the built-in app modules and the boot registry.
// Apps only know the app contract; nothing here touches hardware directly.
package apps

import (
	"github.com/pocketpal/pocketpal/internal/types"
)

// Registry returns the descriptor list in launcher order. Immutable after
// boot, the launcher indexes into it for the device lifetime.
func Registry(version string) []types.AppDescriptor {
	return []types.AppDescriptor{
		{
			ID:      "clock",
			Name:    "Clock",
			Icon:    'O',
			Morning: true,
			New:     newClock,
		},
		{
			ID:   "sketch",
			Name: "Sketch",
			Icon: '/',
			New:  newSketch,
		},
		{
			ID:      "about",
			Name:    "About",
			Icon:    '?',
			Evening: false,
			New: func(env types.AppEnv) (types.Apper, error) {
				return newAbout(env, version)
			},
		},
	}
}
