// internal/input/action.go
package input

// Action represents an operation requested by a key press.
type Action int

const (
	// --- Meta Actions ---
	ActionUnknown   Action = iota
	ActionQuit             // Esc: leave the current mode, or quit from normal mode
	ActionForceQuit        // Quit without checking for unsaved edits
	ActionSave

	// --- Editing ---
	ActionSelectFilter // Requires Filter argument
	ActionApply
	ActionUndo

	// --- Movement (region or sticker, depending on mode) ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionGrowX // Widen the region / enlarge the sticker
	ActionShrinkX
	ActionGrowY
	ActionShrinkY

	// --- Modes ---
	ActionToggleRegion
	ActionEnterStickerMode
	ActionEnterCommandMode

	// --- Stickers ---
	ActionRemoveSticker
	ActionNextSticker
	ActionRotateLeft
	ActionRotateRight
	ActionFlatten

	// --- Text entry (command mode) ---
	ActionInsertRune // Requires Rune argument
	ActionEnter
	ActionBackspace
)

// ActionEvent is a decoded key press with any payload the action needs.
type ActionEvent struct {
	Action Action
	Rune   rune
	Filter int // Zero-based filter index for ActionSelectFilter
}
