// internal/plugin/plugin.go
package plugin

import (
	"image"

	"github.com/bethropolis/tint/internal/event"
)

// CommandFunc defines the signature for commands registered by plugins.
// It takes arguments (e.g., from user input) and returns an error.
type CommandFunc func(args []string) error

// EditorAPI defines the methods plugins can use to interact with the editor.
// Plugins never see the editor itself, only this surface.
type EditorAPI interface {
	// --- Image Access (Read-Only) ---
	CurrentImage() image.Image // Nil when no image is loaded
	ImagePath() string         // Source path, empty for generated images
	IsImageModified() bool     // Changed since load or last save
	CanUndo() bool
	HistoryLen() int
	SelectedFilter() string // Empty when none is selected
	SessionID() string

	// --- Export ---
	SaveImage() (string, error) // Writes to the export directory, returns the path

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Configuration ---
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded. Used for
	// subscribing to events and registering commands.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}
