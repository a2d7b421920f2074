package app

import (
	"image"

	"github.com/bethropolis/tint/internal/event"
	"github.com/bethropolis/tint/internal/logger"
)

// subscribeEvents tracks unsaved edits. Edit events arrive on the editor's
// worker goroutine, so handlers only touch atomic state and post redraws.
func (a *App) subscribeEvents() {
	markModified := func(e event.Event) bool {
		a.modified.Store(true)
		return false
	}
	a.eventManager.Subscribe(event.TypeEditApplied, markModified)
	a.eventManager.Subscribe(event.TypeEditReverted, markModified)
	a.eventManager.Subscribe(event.TypeStickersFlattened, markModified)

	a.eventManager.Subscribe(event.TypeImageLoaded, a.handleImageLoaded)
	a.eventManager.Subscribe(event.TypeImageSaved, a.handleImageSaved)
	a.eventManager.Subscribe(event.TypeEditFailed, a.handleEditFailed)
}

func (a *App) handleImageLoaded(e event.Event) bool {
	a.modified.Store(false)
	return false
}

func (a *App) handleImageSaved(e event.Event) bool {
	a.modified.Store(false)
	if data, ok := e.Data.(event.ImageSavedData); ok {
		logger.Infof("App: Saved %s", data.Path)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleEditFailed(e event.Event) bool {
	if data, ok := e.Data.(event.EditFailedData); ok {
		logger.DebugTagf("app", "Edit %s failed: %v", data.Op, data.Err)
	}
	return false
}

// onImageChanged is the editor listener; it runs on the event loop.
func (a *App) onImageChanged(img image.Image) {
	logger.DebugTagf("app", "Image changed (%v), depth %d", img.Bounds().Size(), a.editor.HistoryLen())
}
