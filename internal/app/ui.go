package app

import (
	"image"

	"github.com/bethropolis/tint/internal/config"
	"github.com/bethropolis/tint/internal/core"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/tui"
)

// drawEditor clears the screen and redraws all components.
func (a *App) drawEditor() {
	a.updateStatusBarContent()

	activeTheme := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	viewHeight := height - config.StatusBarHeight

	logger.DebugTagf("draw", "drawEditor: Screen Size (%d x %d), ViewHeight: %d", width, height, viewHeight)

	a.tuiManager.Clear()
	img := a.currentImage()
	layer, active := a.modeHandler.Stickers()
	if img != nil && layer != nil && layer.Len() > 0 {
		img = layer.Render(img)
	}
	layout := tui.DrawImage(screen, img, width, viewHeight, activeTheme)
	tui.DrawRegion(screen, layout, a.modeHandler.Region(), activeTheme)
	tui.DrawStickers(screen, layout, layer, active, activeTheme)
	a.statusBar.Draw(screen, width, height, activeTheme)
	a.tuiManager.Show()

	if a.statusBar.MessageActive() {
		a.expire.Debounce(a.cfg.TUI.MessageTimeout, a.requestRedraw)
	}
}

// updateStatusBarContent pushes current editor state to the status bar component.
func (a *App) updateStatusBarContent() {
	var size image.Point
	if img := a.currentImage(); img != nil {
		size = img.Bounds().Size()
	}
	a.statusBar.SetFileInfo(a.ImagePath(), size, a.modified.Load())

	filterName := ""
	if k, ok := a.editor.SelectedFilter(); ok {
		filterName = k.Name()
	}
	a.statusBar.SetEditInfo(filterName, a.modeHandler.Region(), a.editor.HistoryLen())

	state := a.editor.State().String()
	if n := a.modeHandler.Pending(); n > 0 {
		state = core.StateEditing.String()
	}
	a.statusBar.SetEditorState(state, a.modeHandler.GetCurrentMode().String())
}
