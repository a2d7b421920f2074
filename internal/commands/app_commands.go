package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bethropolis/tint/internal/filter"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/plugin"
	"github.com/bethropolis/tint/internal/types"
)

var errUsage = errors.New("usage")

// Registrar is the part of the plugin API commands are registered through.
type Registrar interface {
	RegisterCommand(name string, cmdFunc plugin.CommandFunc) error
}

// RegisterAppCommands registers the built-in editing and theme commands.
func RegisterAppCommands(api Registrar, editAPI EditAPI, themeAPI ThemeAPI) {
	RegisterEditCommands(api, editAPI)
	RegisterThemeCommands(api, themeAPI)
}

func register(api Registrar, name string, fn plugin.CommandFunc) {
	if err := api.RegisterCommand(name, fn); err != nil {
		logger.Warnf("Failed to register ':%s' command: %v", name, err)
	}
}

// RegisterEditCommands registers :filter, :apply, :undo, :save, :open, :q and :q!.
func RegisterEditCommands(api Registrar, editAPI EditAPI) {
	register(api, "filter", func(args []string) error {
		if len(args) == 0 {
			names := make([]string, 0, len(filter.All()))
			for i, k := range filter.All() {
				names = append(names, fmt.Sprintf("%d:%s", i+1, k.Name()))
			}
			editAPI.SetStatusMessage("Filters: %s", strings.Join(names, ", "))
			return nil
		}
		name := strings.Join(args, " ")
		if err := editAPI.SelectFilter(name); err != nil {
			return err
		}
		editAPI.SetStatusMessage("Filter: %s", name)
		return nil
	})

	register(api, "apply", func(args []string) error {
		switch len(args) {
		case 0:
			return editAPI.Apply(nil)
		case 1:
			r, err := types.ParseRegion(args[0])
			if err != nil {
				return err
			}
			return editAPI.Apply(&r)
		default:
			return fmt.Errorf("%w: apply [x,y,width,height]", errUsage)
		}
	})

	register(api, "undo", func(args []string) error {
		return editAPI.Undo()
	})

	register(api, "save", func(args []string) error {
		if len(args) > 1 {
			return fmt.Errorf("%w: save [path]", errUsage)
		}
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		saved, err := editAPI.SaveAs(path)
		if err != nil {
			return err
		}
		editAPI.SetStatusMessage("Saved to %s", saved)
		return nil
	})

	register(api, "open", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("%w: open <path>", errUsage)
		}
		return editAPI.Open(strings.Join(args, " "))
	})

	register(api, "q", func(args []string) error {
		editAPI.Quit(false)
		return nil
	})
	register(api, "q!", func(args []string) error {
		editAPI.Quit(true)
		return nil
	})
}

// RegisterThemeCommands registers only theme-related commands
func RegisterThemeCommands(api Registrar, themeAPI ThemeAPI) {
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			currentTheme := themeAPI.GetTheme()
			themeAPI.SetStatusMessage("Current theme: %s", currentTheme.Name)
			return nil
		}

		themeName := strings.Join(args, " ") // Allow theme names with spaces
		if err := themeAPI.SetTheme(themeName); err != nil {
			themeList := strings.Join(themeAPI.ListThemes(), ", ")
			return fmt.Errorf("theme '%s' not found. Available: %s", themeName, themeList)
		}
		themeAPI.SetStatusMessage("Theme set to: %s", themeName)
		return nil
	}

	themeListCmdFunc := func(args []string) error {
		themeList := strings.Join(themeAPI.ListThemes(), ", ")
		themeAPI.SetStatusMessage("Available themes: %s", themeList)
		return nil
	}

	register(api, "theme", themeCmdFunc)
	register(api, "themes", themeListCmdFunc)
}
