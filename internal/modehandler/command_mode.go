package modehandler

import (
	"strings"

	"github.com/bethropolis/tint/internal/input"
	"github.com/bethropolis/tint/internal/logger"
)

// handleActionCommand handles actions when in ModeCommand. Bound keys still
// carry their rune, so any key with a rune is typed into the prompt.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	actionProcessed := true

	switch actionEvent.Action {
	case input.ActionBackspace:
		if len(mh.cmdBuffer) > 0 {
			mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-1]
			mh.statusBar.SetCommandPrompt(string(mh.cmdBuffer))
		} else {
			mh.leaveCommandMode()
			logger.Debugf("ModeHandler: Exiting Command Mode via Backspace")
		}

	case input.ActionEnter:
		cmd := string(mh.cmdBuffer)
		mh.leaveCommandMode()
		mh.ExecuteCommand(cmd)

	case input.ActionQuit:
		mh.leaveCommandMode()
		logger.Debugf("ModeHandler: Canceled Command Mode via Escape")

	default:
		if actionEvent.Rune == 0 {
			return false
		}
		mh.cmdBuffer = append(mh.cmdBuffer, actionEvent.Rune)
		mh.statusBar.SetCommandPrompt(string(mh.cmdBuffer))
	}

	return actionProcessed
}

func (mh *ModeHandler) leaveCommandMode() {
	mh.currentMode = ModeNormal
	mh.cmdBuffer = mh.cmdBuffer[:0]
	mh.statusBar.ResetTemporaryMessage()
}

// ExecuteCommand parses and runs a command line such as "filter noir".
func (mh *ModeHandler) ExecuteCommand(cmdStr string) {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return
	}
	cmdName, args := parts[0], parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return
	}
	logger.Debugf("ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		mh.statusBar.SetTemporaryMessage("Error executing command '%s': %v", cmdName, err)
	}
}
