package modehandler

import (
	"github.com/bethropolis/tint/internal/input"
	"github.com/bethropolis/tint/internal/types"
)

// handleActionRegion moves and resizes the selection. Other actions behave
// as in normal mode.
func (mh *ModeHandler) handleActionRegion(actionEvent input.ActionEvent) bool {
	step := mh.regionStep
	switch actionEvent.Action {
	case input.ActionMoveUp:
		mh.region.Y -= step
	case input.ActionMoveDown:
		mh.region.Y += step
	case input.ActionMoveLeft:
		mh.region.X -= step
	case input.ActionMoveRight:
		mh.region.X += step
	case input.ActionGrowX:
		mh.region.Width += step
	case input.ActionShrinkX:
		mh.region.Width -= step
	case input.ActionGrowY:
		mh.region.Height += step
	case input.ActionShrinkY:
		mh.region.Height -= step
	case input.ActionToggleRegion:
		mh.region = nil
		mh.currentMode = ModeNormal
		mh.statusBar.SetTemporaryMessage("Region cleared")
		return true
	case input.ActionQuit:
		mh.currentMode = ModeNormal
		return true
	default:
		return mh.executeAction(actionEvent)
	}
	mh.clampRegion()
	return true
}

// defaultRegion is the centered half of the image.
func (mh *ModeHandler) defaultRegion() *types.Region {
	size := mh.editor.CurrentImage().Bounds().Size()
	w, h := max(size.X/2, 1), max(size.Y/2, 1)
	return &types.Region{X: (size.X - w) / 2, Y: (size.Y - h) / 2, Width: w, Height: h}
}

// clampRegion keeps the selection inside the image and at least 1×1.
func (mh *ModeHandler) clampRegion() {
	img := mh.editor.CurrentImage()
	if mh.region == nil || img == nil {
		return
	}
	size := img.Bounds().Size()
	r := mh.region
	r.Width = clamp(r.Width, 1, size.X)
	r.Height = clamp(r.Height, 1, size.Y)
	r.X = clamp(r.X, 0, size.X-r.Width)
	r.Y = clamp(r.Y, 0, size.Y-r.Height)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
