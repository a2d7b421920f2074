// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type RuneKeymap map[rune]Action         // For plain rune bindings
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyEnter] = ActionEnter
	p.keymap[tcell.KeyBackspace] = ActionBackspace
	p.keymap[tcell.KeyBackspace2] = ActionBackspace
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	shiftMap := make(Keymap)
	shiftMap[tcell.KeyRight] = ActionGrowX
	shiftMap[tcell.KeyLeft] = ActionShrinkX
	shiftMap[tcell.KeyDown] = ActionGrowY
	shiftMap[tcell.KeyUp] = ActionShrinkY
	p.modKeymap[tcell.ModShift] = shiftMap

	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	p.runeKeymap[':'] = ActionEnterCommandMode
	p.runeKeymap['a'] = ActionApply
	p.runeKeymap['u'] = ActionUndo
	p.runeKeymap['r'] = ActionToggleRegion
	p.runeKeymap['s'] = ActionEnterStickerMode
	p.runeKeymap['x'] = ActionRemoveSticker
	p.runeKeymap['n'] = ActionNextSticker
	p.runeKeymap['['] = ActionRotateLeft
	p.runeKeymap[']'] = ActionRotateRight
	p.runeKeymap['f'] = ActionFlatten
	p.runeKeymap['+'] = ActionGrowX
	p.runeKeymap['-'] = ActionShrinkX
	p.runeKeymap['h'] = ActionMoveLeft
	p.runeKeymap['j'] = ActionMoveDown
	p.runeKeymap['k'] = ActionMoveUp
	p.runeKeymap['l'] = ActionMoveRight
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
// Input mode is not handled here; the mode handler interprets the action.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	// 1. Modifier + key combinations
	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, keyOk := modKeyMap[key]; keyOk {
			return ActionEvent{Action: action}
		}
	}
	// Ctrl+letter keys already carry Ctrl in the key itself.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
		mod &^= tcell.ModCtrl
	}

	// 2. Plain special keys
	if key != tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Runes: digits pick filters, then bindings, then text
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if runeVal >= '1' && runeVal <= '9' {
			return ActionEvent{Action: ActionSelectFilter, Rune: runeVal, Filter: int(runeVal - '1')}
		}
		if action, ok := p.runeKeymap[runeVal]; ok {
			return ActionEvent{Action: action, Rune: runeVal}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
	}

	return ActionEvent{Action: ActionUnknown}
}
