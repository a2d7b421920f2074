// internal/modehandler/modehandler.go
package modehandler

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bethropolis/tint/internal/core"
	"github.com/bethropolis/tint/internal/event"
	"github.com/bethropolis/tint/internal/input"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/plugin"
	"github.com/bethropolis/tint/internal/statusbar"
	"github.com/bethropolis/tint/internal/sticker"
	"github.com/bethropolis/tint/internal/types"
	"github.com/gdamore/tcell/v2"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeRegion
	ModeSticker
	ModeCommand
)

func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeRegion:
		return "REGION"
	case ModeSticker:
		return "STICKER"
	case ModeCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

const defaultRegionStep = 10

// ModeHandler turns key presses into editor operations. Every method must be
// called from the UI goroutine; results of background edits come back through
// Config.Post.
type ModeHandler struct {
	editor         *core.Editor
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	quitSignal     chan<- struct{}
	save           func() (string, error)
	isModified     func() bool
	post           func(func())
	regionStep     int
	stickerImage   image.Image

	currentMode      InputMode
	cmdBuffer        []rune
	commands         map[string]plugin.CommandFunc
	forceQuitPending bool
	quitting         bool

	region  *types.Region
	layer   *sticker.Layer
	active  int // Selected sticker in layer
	pending int // Background edits not yet reported
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Editor         *core.Editor
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
	QuitSignal     chan<- struct{}        // Closed to ask the app to quit
	Save           func() (string, error) // Exports the current image
	IsModified     func() bool            // Unsaved edits exist
	Post           func(func())           // Runs a func on the UI goroutine
	RegionStep     int                    // Pixels per region move
	StickerImage   image.Image            // Image placed by "add sticker"; a badge when nil
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Editor == nil || cfg.InputProcessor == nil || cfg.EventManager == nil || cfg.StatusBar == nil || cfg.QuitSignal == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	mh := &ModeHandler{
		editor:         cfg.Editor,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		quitSignal:     cfg.QuitSignal,
		save:           cfg.Save,
		isModified:     cfg.IsModified,
		post:           cfg.Post,
		regionStep:     cfg.RegionStep,
		stickerImage:   cfg.StickerImage,
		currentMode:    ModeNormal,
		commands:       make(map[string]plugin.CommandFunc),
	}
	if mh.post == nil {
		mh.post = func(fn func()) { fn() }
	}
	if mh.isModified == nil {
		mh.isModified = func() bool { return false }
	}
	if mh.regionStep <= 0 {
		mh.regionStep = defaultRegionStep
	}
	if mh.stickerImage == nil {
		mh.stickerImage = sticker.Badge(color.NRGBA{R: 0xff, G: 0xd7, A: 0xff})
	}
	if img := mh.editor.CurrentImage(); img != nil {
		mh.ResetForImage(img.Bounds().Size())
	}
	mh.eventManager.Subscribe(event.TypeImageLoaded, func(e event.Event) bool {
		if data, ok := e.Data.(event.ImageLoadedData); ok {
			mh.ResetForImage(data.Size)
		}
		return false
	})
	return mh
}

// ResetForImage drops the region and stickers, which belong to the previous
// image, and returns to normal mode.
func (mh *ModeHandler) ResetForImage(size image.Point) {
	mh.region = nil
	mh.layer = sticker.NewLayer(size.X, size.Y)
	mh.active = 0
	if mh.currentMode != ModeCommand {
		mh.currentMode = ModeNormal
	}
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	actionEvent := mh.inputProcessor.ProcessEvent(ev)

	var actionProcessed bool
	switch mh.currentMode {
	case ModeCommand:
		actionProcessed = mh.handleActionCommand(actionEvent)
	case ModeRegion:
		actionProcessed = mh.handleActionRegion(actionEvent)
	case ModeSticker:
		actionProcessed = mh.handleActionSticker(actionEvent)
	default:
		actionProcessed = mh.executeAction(actionEvent)
	}

	if actionEvent.Action != input.ActionQuit && actionEvent.Action != input.ActionUnknown {
		mh.forceQuitPending = false
	}
	return actionProcessed || actionEvent.Action == input.ActionQuit
}

// RegisterCommand adds a command to the registry. Called via EditorAPI.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.Debugf("ModeHandler: Registered command ':%s'", name)
	return nil
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCommandBuffer returns the command being typed, empty outside command mode.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return string(mh.cmdBuffer)
	}
	return ""
}

// Region returns the selected region, nil for the whole image.
func (mh *ModeHandler) Region() *types.Region {
	if mh.region == nil {
		return nil
	}
	r := *mh.region
	return &r
}

// SetRegion selects r, clamped to the image. Nil selects the whole image.
func (mh *ModeHandler) SetRegion(r *types.Region) {
	if r == nil {
		mh.region = nil
		return
	}
	c := *r
	mh.region = &c
	mh.clampRegion()
}

// Stickers returns the pending sticker layer and the selected sticker index.
func (mh *ModeHandler) Stickers() (*sticker.Layer, int) {
	return mh.layer, mh.active
}

// Pending reports how many background edits have not finished yet.
func (mh *ModeHandler) Pending() int {
	return mh.pending
}

// RequestQuit quits, or asks for confirmation first when edits are unsaved.
// force skips the check.
func (mh *ModeHandler) RequestQuit(force bool) {
	if !force && mh.isModified() && !mh.forceQuitPending {
		mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to force quit.")
		mh.forceQuitPending = true
		return
	}
	if mh.quitting {
		return
	}
	mh.quitting = true
	close(mh.quitSignal)
}
