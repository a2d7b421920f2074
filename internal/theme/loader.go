// internal/theme/loader.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

// styleSpec is one style as written in a theme file. Unset fields keep the
// value inherited from the parent style.
type styleSpec struct {
	Fg        *string `toml:"fg" yaml:"fg"`
	Bg        *string `toml:"bg" yaml:"bg"`
	Bold      *bool   `toml:"bold" yaml:"bold"`
	Italic    *bool   `toml:"italic" yaml:"italic"`
	Underline *bool   `toml:"underline" yaml:"underline"`
	Reverse   *bool   `toml:"reverse" yaml:"reverse"`
}

// themeFile is the on-disk layout shared by TOML and YAML themes.
type themeFile struct {
	Name    string               `toml:"name" yaml:"name"`
	IsDark  *bool                `toml:"is_dark" yaml:"is_dark"`
	Extends string               `toml:"extends" yaml:"extends"` // Built-in theme to start from
	Styles  map[string]styleSpec `toml:"styles" yaml:"styles"`
}

// Lookup resolves a theme name for "extends".
type Lookup func(name string) (*Theme, bool)

// isThemeFile reports whether path has an extension LoadThemeFile can read.
func isThemeFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadThemeFile reads a TOML or YAML theme. Styles named in the file are
// layered over the theme it extends (if any): "Default" first, then base
// names, then dotted names ("Sticker.active" builds on "Sticker").
func LoadThemeFile(path string, lookup Lookup) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", path, err)
	}

	var tf themeFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tf); err != nil {
			return nil, fmt.Errorf("failed to parse YAML theme '%s': %w", path, err)
		}
	default:
		md, err := toml.Decode(string(data), &tf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML theme '%s': %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			logger.Warnf("Theme file '%s': unrecognized keys %v", path, undecoded)
		}
	}

	if tf.Name == "" {
		tf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	th := &Theme{Name: tf.Name, Styles: make(map[string]tcell.Style)}

	if tf.Extends != "" {
		var parent *Theme
		ok := false
		if lookup != nil {
			parent, ok = lookup(tf.Extends)
		}
		if !ok {
			return nil, fmt.Errorf("theme '%s' extends unknown theme '%s'", tf.Name, tf.Extends)
		}
		th.IsDark = parent.IsDark
		for name, style := range parent.Styles {
			th.Styles[name] = style
		}
	}
	if tf.IsDark != nil {
		th.IsDark = *tf.IsDark
	}

	for _, name := range layerOrder(tf.Styles) {
		style, err := tf.Styles[name].apply(th.parentStyle(name))
		if err != nil {
			logger.Warnf("Theme '%s': skipping style '%s': %v", th.Name, name, err)
			continue
		}
		th.Styles[name] = style
	}
	if _, ok := th.Styles[StyleDefault]; !ok {
		th.Styles[StyleDefault] = tcell.StyleDefault
	}

	logger.DebugTagf("theme", "Loaded theme '%s' from '%s' (%d styles)", th.Name, path, len(th.Styles))
	return th, nil
}

// parentStyle is what a style in the file starts from before its own fields
// apply: the inherited style of the same name, then its dotted base, then Default.
func (t *Theme) parentStyle(name string) tcell.Style {
	if s, ok := t.Styles[name]; ok {
		return s
	}
	if i := strings.LastIndex(name, "."); i != -1 {
		if s, ok := t.Styles[name[:i]]; ok {
			return s
		}
	}
	if s, ok := t.Styles[StyleDefault]; ok {
		return s
	}
	return tcell.StyleDefault
}

// layerOrder sorts style names so parents are resolved before children.
func layerOrder(styles map[string]styleSpec) []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		di, dj := depth(names[i]), depth(names[j])
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})
	return names
}

func depth(name string) int {
	if name == StyleDefault {
		return -1
	}
	return strings.Count(name, ".")
}

func (s styleSpec) apply(style tcell.Style) (tcell.Style, error) {
	if s.Fg != nil {
		c, err := parseColor(*s.Fg)
		if err != nil {
			return style, fmt.Errorf("fg: %w", err)
		}
		style = style.Foreground(c)
	}
	if s.Bg != nil {
		c, err := parseColor(*s.Bg)
		if err != nil {
			return style, fmt.Errorf("bg: %w", err)
		}
		style = style.Background(c)
	}
	if s.Bold != nil {
		style = style.Bold(*s.Bold)
	}
	if s.Italic != nil {
		style = style.Italic(*s.Italic)
	}
	if s.Underline != nil {
		style = style.Underline(*s.Underline)
	}
	if s.Reverse != nil {
		style = style.Reverse(*s.Reverse)
	}
	return style, nil
}

// parseColor accepts "#rrggbb", "#rgb", "reset", "default" or a W3C color name.
func parseColor(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default", "":
		return tcell.ColorDefault, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s'", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(v)), nil
	}
	if c, ok := tcell.ColorNames[s]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color '%s'", s)
}
