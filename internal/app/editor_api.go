// internal/app/editor_api.go
package app

import (
	"errors"
	"fmt"
	"image"

	"github.com/bethropolis/tint/internal/commands"
	"github.com/bethropolis/tint/internal/event"
	"github.com/bethropolis/tint/internal/filter"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/plugin"
	"github.com/bethropolis/tint/internal/theme"
	"github.com/bethropolis/tint/internal/types"
)

// Ensure appEditorAPI implements the plugin.EditorAPI interface.
var _ plugin.EditorAPI = (*appEditorAPI)(nil)

// Verify that appEditorAPI implements the command interfaces.
var (
	_ commands.ThemeAPI  = (*appEditorAPI)(nil)
	_ commands.EditAPI   = (*appEditorAPI)(nil)
	_ commands.Registrar = (*appEditorAPI)(nil)
)

var errNoImage = errors.New("no image loaded")

// appEditorAPI provides the concrete implementation of the EditorAPI interface.
type appEditorAPI struct {
	app *App
}

func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

// --- Image Access ---

func (api *appEditorAPI) CurrentImage() image.Image {
	return api.app.currentImage()
}

func (api *appEditorAPI) ImagePath() string {
	return api.app.ImagePath()
}

func (api *appEditorAPI) IsImageModified() bool {
	return api.app.modified.Load()
}

func (api *appEditorAPI) CanUndo() bool {
	return api.app.editor.CanUndo()
}

func (api *appEditorAPI) HistoryLen() int {
	return api.app.editor.HistoryLen()
}

func (api *appEditorAPI) SelectedFilter() string {
	if k, ok := api.app.editor.SelectedFilter(); ok {
		return k.Name()
	}
	return ""
}

func (api *appEditorAPI) SessionID() string {
	return api.app.editor.SessionID()
}

// --- Export ---

// SaveImage writes the current image to the export directory.
func (api *appEditorAPI) SaveImage() (string, error) {
	img := api.app.currentImage()
	if img == nil {
		return "", errNoImage
	}
	path, err := api.app.store.Save(img, api.SessionID())
	if err != nil {
		return "", err
	}
	api.app.eventManager.Dispatch(event.TypeImageSaved, event.ImageSavedData{Path: path})
	return path, nil
}

// SaveAs writes to path, or to the export directory when path is empty.
func (api *appEditorAPI) SaveAs(path string) (string, error) {
	if path == "" {
		return api.SaveImage()
	}
	img := api.app.currentImage()
	if img == nil {
		return "", errNoImage
	}
	if err := api.app.store.SaveAs(img, path); err != nil {
		return "", err
	}
	api.app.eventManager.Dispatch(event.TypeImageSaved, event.ImageSavedData{Path: path})
	return path, nil
}

// --- Editing ---

func (api *appEditorAPI) SelectFilter(name string) error {
	k, err := filter.Lookup(name)
	if err != nil {
		return err
	}
	return api.app.editor.SelectFilter(k)
}

// Apply selects region (keeping the current selection when nil) and queues
// the selected filter over it.
func (api *appEditorAPI) Apply(region *types.Region) error {
	if api.app.currentImage() == nil {
		return errNoImage
	}
	if region != nil {
		api.app.modeHandler.SetRegion(region)
	}
	api.app.modeHandler.ApplySelected()
	return nil
}

func (api *appEditorAPI) Undo() error {
	api.app.modeHandler.Undo()
	return nil
}

func (api *appEditorAPI) Open(path string) error {
	return api.app.Open(path)
}

func (api *appEditorAPI) Quit(force bool) {
	api.app.modeHandler.RequestQuit(force)
}

// --- Event Bus Interaction ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID {
	return api.app.eventManager.Subscribe(eventType, handler)
}

// --- Command Registration ---

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if api.app == nil || api.app.GetModeHandler() == nil {
		logger.Errorf("appEditorAPI cannot register command '%s', app or modeHandler is nil", name)
		return fmt.Errorf("internal error: API cannot access command registration")
	}
	return api.app.GetModeHandler().RegisterCommand(name, cmdFunc)
}

// --- Status Bar ---

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.statusBar.SetTemporaryMessage(format, args...)
	api.app.requestRedraw()
}

// --- Configuration ---

func (api *appEditorAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	table, ok := api.app.cfg.PluginConfig(pluginName)
	if !ok {
		return nil, false
	}
	v, ok := table[key]
	return v, ok
}

// --- Theme Access ---

// SetTheme sets the active theme by name
func (api *appEditorAPI) SetTheme(name string) error {
	if err := api.app.GetThemeManager().SetTheme(name); err != nil {
		return err
	}
	api.app.tuiManager.SetTheme(api.app.GetThemeManager().Current())
	api.app.requestRedraw()
	logger.Debugf("Theme changed to '%s', redraw requested", name)
	return nil
}

// GetTheme returns the current active theme
func (api *appEditorAPI) GetTheme() *theme.Theme {
	return api.app.GetThemeManager().Current()
}

// ListThemes returns a list of all available theme names
func (api *appEditorAPI) ListThemes() []string {
	return api.app.GetThemeManager().ListThemes()
}
