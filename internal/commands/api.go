package commands

import (
	"github.com/bethropolis/tint/internal/theme"
	"github.com/bethropolis/tint/internal/types"
)

// ThemeAPI extends the commands functionality to support theme operations
type ThemeAPI interface {
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string
	SetStatusMessage(format string, args ...interface{})
}

// EditAPI is what the editing commands drive. Apply and Undo run in the
// background and report their own outcome.
type EditAPI interface {
	SelectFilter(name string) error
	Apply(region *types.Region) error
	Undo() error
	SaveAs(path string) (string, error) // Empty path exports to the default directory
	Open(path string) error
	Quit(force bool)
	SetStatusMessage(format string, args ...interface{})
}
