package modehandler

import (
	"context"
	"math"

	"github.com/bethropolis/tint/internal/input"
	"github.com/bethropolis/tint/internal/logger"
)

const (
	stickerStep     = 10
	stickerRotation = math.Pi / 12
	stickerGrow     = 1.1
)

// handleActionSticker places and arranges stickers before they are flattened.
func (mh *ModeHandler) handleActionSticker(actionEvent input.ActionEvent) bool {
	switch actionEvent.Action {
	case input.ActionEnterStickerMode:
		mh.addSticker()
		return true
	case input.ActionQuit:
		mh.currentMode = ModeNormal
		return true
	case input.ActionFlatten:
		mh.Flatten()
		return true
	}

	if mh.layer.Len() == 0 {
		return mh.executeAction(actionEvent)
	}

	var err error
	switch actionEvent.Action {
	case input.ActionMoveUp:
		err = mh.moveSticker(0, -stickerStep)
	case input.ActionMoveDown:
		err = mh.moveSticker(0, stickerStep)
	case input.ActionMoveLeft:
		err = mh.moveSticker(-stickerStep, 0)
	case input.ActionMoveRight:
		err = mh.moveSticker(stickerStep, 0)
	case input.ActionGrowX, input.ActionGrowY:
		err = mh.layer.ScaleBy(mh.active, stickerGrow)
	case input.ActionShrinkX, input.ActionShrinkY:
		err = mh.layer.ScaleBy(mh.active, 1/stickerGrow)
	case input.ActionRotateLeft:
		err = mh.layer.Rotate(mh.active, stickerRotation)
	case input.ActionRotateRight:
		err = mh.layer.Rotate(mh.active, -stickerRotation)
	case input.ActionNextSticker:
		mh.active = (mh.active + 1) % mh.layer.Len()
	case input.ActionRemoveSticker:
		err = mh.layer.Remove(mh.active)
		if mh.active >= mh.layer.Len() {
			mh.active = max(mh.layer.Len()-1, 0)
		}
	default:
		return mh.executeAction(actionEvent)
	}
	if err != nil {
		logger.Debugf("ModeHandler: sticker action failed: %v", err)
		mh.statusBar.SetTemporaryMessage("Sticker: %v", err)
	}
	return true
}

func (mh *ModeHandler) moveSticker(dx, dy int) error {
	moved, err := mh.layer.Move(mh.active, dx, dy)
	if err == nil && !moved {
		mh.statusBar.SetTemporaryMessage("Sticker is at the edge")
	}
	return err
}

func (mh *ModeHandler) addSticker() {
	i, err := mh.layer.Add(mh.stickerImage)
	if err != nil {
		mh.statusBar.SetTemporaryMessage("Add sticker failed: %v", err)
		return
	}
	mh.active = i
	mh.statusBar.SetTemporaryMessage("Sticker %d added", i+1)
}

// Flatten burns the placed stickers into the image as one undoable edit.
// The layer is cleared once the edit commits.
func (mh *ModeHandler) Flatten() {
	if mh.layer.Len() == 0 {
		mh.statusBar.SetTemporaryMessage("No stickers to flatten")
		return
	}
	snapshot := mh.layer.Clone()
	errc := make(chan error, 1)
	go func() {
		errc <- mh.editor.FlattenStickers(context.Background(), snapshot)
	}()
	mh.await("Flatten", errc, func() {
		mh.layer.Clear()
		mh.active = 0
		mh.currentMode = ModeNormal
		mh.statusBar.SetTemporaryMessage("Stickers flattened")
	})
}
