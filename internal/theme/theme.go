// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/tint/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Style names the front-end looks up.
const (
	StyleDefault           = "Default"
	StyleCanvas            = "Canvas"
	StyleRegion            = "Region"
	StyleSticker           = "Sticker"
	StyleStickerActive     = "Sticker.active"
	StyleStatusBar         = "StatusBar"
	StyleStatusBarModified = "StatusBarModified"
	StyleStatusBarMessage  = "StatusBarMessage"
	StyleStatusBarCommand  = "StatusBarCommand"
)

// Theme is a named set of terminal styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style. A dotted name falls back to its base
// ("Region.active" -> "Region"), then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles[StyleDefault]; ok {
		if name != StyleDefault {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// TintDark is the default theme.
func TintDark() *Theme {
	bg := tcell.NewHexColor(0x1e2127)
	fg := tcell.NewHexColor(0xc5cdd9)
	bar := tcell.NewHexColor(0x2a2f38)
	amber := tcell.NewHexColor(0xe5c07b)
	cyan := tcell.NewHexColor(0x56b6c2)
	magenta := tcell.NewHexColor(0xc678dd)
	green := tcell.NewHexColor(0x98c379)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	return &Theme{
		Name:   "Tint Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:           base,
			StyleCanvas:            base.Background(bg),
			StyleRegion:            base.Foreground(amber).Bold(true),
			StyleSticker:           base.Foreground(magenta),
			StyleStickerActive:     base.Foreground(magenta).Bold(true),
			StyleStatusBar:         tcell.StyleDefault.Background(bar).Foreground(fg),
			StyleStatusBarModified: tcell.StyleDefault.Background(bar).Foreground(amber),
			StyleStatusBarMessage:  tcell.StyleDefault.Background(bar).Foreground(cyan).Bold(true),
			StyleStatusBarCommand:  tcell.StyleDefault.Background(bar).Foreground(green).Bold(true),
		},
	}
}

// TintLight suits light terminal backgrounds.
func TintLight() *Theme {
	fg := tcell.NewHexColor(0x383a42)
	bar := tcell.NewHexColor(0xe5e5e6)
	orange := tcell.NewHexColor(0xc18401)
	blue := tcell.NewHexColor(0x4078f2)
	purple := tcell.NewHexColor(0xa626a4)
	green := tcell.NewHexColor(0x50a14f)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	return &Theme{
		Name:   "Tint Light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			StyleDefault:           base,
			StyleCanvas:            base.Background(tcell.NewHexColor(0xfafafa)),
			StyleRegion:            base.Foreground(orange).Bold(true),
			StyleSticker:           base.Foreground(purple),
			StyleStickerActive:     base.Foreground(purple).Bold(true),
			StyleStatusBar:         tcell.StyleDefault.Background(bar).Foreground(fg),
			StyleStatusBarModified: tcell.StyleDefault.Background(bar).Foreground(orange),
			StyleStatusBarMessage:  tcell.StyleDefault.Background(bar).Foreground(blue).Bold(true),
			StyleStatusBarCommand:  tcell.StyleDefault.Background(bar).Foreground(green).Bold(true),
		},
	}
}
