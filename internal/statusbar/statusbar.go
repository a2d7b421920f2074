// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/tint/internal/theme"
	"github.com/bethropolis/tint/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Config defines the behavior of the status bar.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{MessageTimeout: 4 * time.Second}
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	filePath   string
	imageSize  image.Point
	isModified bool
	filter     string
	region     *types.Region
	depth      int
	state      string
	mode       string

	tempMessage     string
	tempMessageTime time.Time
	command         bool // Message is the command prompt

	now func() time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	if config.MessageTimeout <= 0 {
		config.MessageTimeout = DefaultConfig().MessageTimeout
	}
	return &StatusBar{config: config, now: time.Now}
}

// SetFileInfo updates the image name, size and modified flag.
func (sb *StatusBar) SetFileInfo(path string, size image.Point, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.imageSize = size
	sb.isModified = modified
}

// SetEditInfo updates the selected filter, region and undo depth.
func (sb *StatusBar) SetEditInfo(filter string, region *types.Region, depth int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filter = filter
	sb.region = region
	sb.depth = depth
}

// SetEditorState updates the displayed editor state and input mode.
func (sb *StatusBar) SetEditorState(state, mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.state = state
	sb.mode = mode
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
	sb.command = false
}

// SetCommandPrompt shows the command line being typed. It stays until reset.
func (sb *StatusBar) SetCommandPrompt(text string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ":" + text
	sb.tempMessageTime = time.Time{}
	sb.command = true
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
	sb.command = false
}

// Text returns what the status line currently shows.
func (sb *StatusBar) Text() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	text, _ := sb.current()
	return text
}

// MessageActive reports whether a timed message is showing.
func (sb *StatusBar) MessageActive() bool {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	_, message := sb.current()
	return message && !sb.command
}

// current picks the message or default text; caller holds the lock.
func (sb *StatusBar) current() (text string, message bool) {
	if sb.command {
		return sb.tempMessage, true
	}
	if !sb.tempMessageTime.IsZero() {
		if sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout {
			return sb.tempMessage, true
		}
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}
	return sb.defaultText(), false
}

func (sb *StatusBar) defaultText() string {
	name := "[No Image]"
	if sb.filePath != "" {
		name = filepath.Base(sb.filePath)
	}
	var b strings.Builder
	b.WriteString(name)
	if sb.imageSize != (image.Point{}) {
		fmt.Fprintf(&b, " %dx%d", sb.imageSize.X, sb.imageSize.Y)
	}
	if sb.isModified {
		b.WriteString(" [Modified]")
	}

	filter := sb.filter
	if filter == "" {
		filter = "none"
	}
	fmt.Fprintf(&b, " -- Filter: %s", filter)
	if sb.region != nil {
		fmt.Fprintf(&b, " -- Region: %v", sb.region)
	}
	fmt.Fprintf(&b, " -- Undo: %d", sb.depth)
	if sb.state != "" {
		fmt.Fprintf(&b, " -- %s", sb.state)
	}
	if sb.mode != "" {
		fmt.Fprintf(&b, " -- %s", sb.mode)
	}
	return b.String()
}

// Draw renders the status bar on the last screen line using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, activeTheme *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	text, isMessage := sb.current()
	command := sb.command
	modified := sb.isModified
	sb.mu.Unlock()

	style := activeTheme.GetStyle(theme.StyleStatusBar)
	switch {
	case command:
		style = activeTheme.GetStyle(theme.StyleStatusBarCommand)
	case isMessage:
		style = activeTheme.GetStyle(theme.StyleStatusBarMessage)
	case modified:
		style = activeTheme.GetStyle(theme.StyleStatusBarModified)
	}

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			screen.SetContent(currentX, y, runes[0], runes[1:], style)
		}
		currentX += clusterWidth
	}
}
