package modehandler

import (
	"github.com/bethropolis/tint/internal/filter"
	"github.com/bethropolis/tint/internal/input"
	"github.com/bethropolis/tint/internal/logger"
)

// executeAction handles actions when in ModeNormal. Region and sticker modes
// fall back to it for actions they do not handle themselves.
func (mh *ModeHandler) executeAction(actionEvent input.ActionEvent) bool {
	actionProcessed := true

	switch actionEvent.Action {
	case input.ActionEnterCommandMode:
		mh.currentMode = ModeCommand
		mh.cmdBuffer = mh.cmdBuffer[:0]
		mh.statusBar.SetCommandPrompt("")
		logger.Debugf("ModeHandler: Entering Command Mode")

	case input.ActionToggleRegion:
		if !mh.requireImage() {
			return true
		}
		if mh.region == nil {
			mh.region = mh.defaultRegion()
		}
		mh.currentMode = ModeRegion
		mh.statusBar.SetTemporaryMessage("Region %v", mh.region)

	case input.ActionEnterStickerMode:
		if !mh.requireImage() {
			return true
		}
		mh.currentMode = ModeSticker
		if mh.layer.Len() == 0 {
			mh.addSticker()
		}

	case input.ActionQuit:
		mh.RequestQuit(false)
	case input.ActionForceQuit:
		mh.RequestQuit(true)

	case input.ActionSave:
		mh.saveImage()

	case input.ActionSelectFilter:
		kinds := filter.All()
		if actionEvent.Filter < 0 || actionEvent.Filter >= len(kinds) {
			mh.statusBar.SetTemporaryMessage("No filter on key %c", actionEvent.Rune)
			return true
		}
		k := kinds[actionEvent.Filter]
		if err := mh.editor.SelectFilter(k); err != nil {
			mh.statusBar.SetTemporaryMessage("Select failed: %v", err)
			return true
		}
		mh.statusBar.SetTemporaryMessage("Filter: %s", k.Name())

	case input.ActionApply, input.ActionEnter:
		mh.ApplySelected()

	case input.ActionUndo:
		mh.Undo()

	default:
		actionProcessed = false
	}
	return actionProcessed
}

func (mh *ModeHandler) requireImage() bool {
	if mh.editor.CurrentImage() == nil {
		mh.statusBar.SetTemporaryMessage("No image loaded")
		return false
	}
	return true
}

// ApplySelected queues the selected filter over the current region. The
// outcome is reported on the status bar once the edit finishes.
func (mh *ModeHandler) ApplySelected() {
	k, ok := mh.editor.SelectedFilter()
	if !ok {
		mh.statusBar.SetTemporaryMessage("No filter selected (keys 1-%d)", len(filter.All()))
		return
	}
	region := mh.Region()
	mh.statusBar.SetTemporaryMessage("Applying %s...", k.Name())
	mh.await("Apply", mh.editor.ApplySelectedFilterAsync(region), func() {
		mh.statusBar.SetTemporaryMessage("Applied %s", k.Name())
	})
}

// Undo queues a revert of the last edit.
func (mh *ModeHandler) Undo() {
	if !mh.editor.CanUndo() && mh.pending == 0 {
		mh.statusBar.SetTemporaryMessage("Nothing to undo")
		return
	}
	mh.await("Undo", mh.editor.RevertLastAsync(), func() {
		mh.statusBar.SetTemporaryMessage("Undone (%d left)", mh.editor.HistoryLen())
	})
}

// await waits for errc off the UI goroutine and reports the outcome through post.
func (mh *ModeHandler) await(op string, errc <-chan error, onSuccess func()) {
	mh.pending++
	go func() {
		err := <-errc
		mh.post(func() {
			mh.pending--
			if err != nil {
				logger.Debugf("ModeHandler: %s failed: %v", op, err)
				mh.statusBar.SetTemporaryMessage("%s failed: %v", op, err)
				return
			}
			if onSuccess != nil {
				onSuccess()
			}
		})
	}()
}

func (mh *ModeHandler) saveImage() {
	if mh.save == nil {
		mh.statusBar.SetTemporaryMessage("Saving is not available")
		return
	}
	path, err := mh.save()
	if err != nil {
		mh.statusBar.SetTemporaryMessage("Save FAILED: %v", err)
		return
	}
	mh.statusBar.SetTemporaryMessage("Saved to %s", path)
}
