package app

import (
	"fmt"

	"github.com/bethropolis/tint/internal/commands"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/plugin"
	"github.com/bethropolis/tint/plugins/autosave"
	"github.com/bethropolis/tint/plugins/imagestats"
)

// registerPlugins registers all known plugins with the manager.
func registerPlugins(pm *plugin.Manager) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	// Adding a new plugin means adding its constructor here.
	pluginConstructors := []func() plugin.Plugin{
		func() plugin.Plugin { return imagestats.New() },
		autosave.New,
	}

	var finalErr error
	for _, newPlugin := range pluginConstructors {
		p := newPlugin()
		logger.Debugf("Registering plugin: %s", p.Name())
		if err := pm.Register(p); err != nil {
			wrappedErr := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrappedErr)
			if finalErr == nil {
				finalErr = wrappedErr
			}
		}
	}
	return finalErr
}

// registerAppCommands registers the built-in commands.
func registerAppCommands(a *App) {
	commands.RegisterAppCommands(a.editorAPI, a.editorAPI, a.editorAPI)
}
