// internal/app/app.go
package app

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/tint/internal/config"
	"github.com/bethropolis/tint/internal/core"
	"github.com/bethropolis/tint/internal/event"
	"github.com/bethropolis/tint/internal/export"
	"github.com/bethropolis/tint/internal/imageio"
	"github.com/bethropolis/tint/internal/input"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/modehandler"
	"github.com/bethropolis/tint/internal/plugin"
	"github.com/bethropolis/tint/internal/statusbar"
	"github.com/bethropolis/tint/internal/theme"
	"github.com/bethropolis/tint/internal/tui"
	"github.com/bethropolis/tint/internal/utils"
	"github.com/gdamore/tcell/v2"
)

const resizeDelay = 50 * time.Millisecond

// Options selects what the app opens and where it draws.
type Options struct {
	Config      *config.Config
	ImagePath   string       // Opened at startup when set
	StickerPath string       // Image placed by the sticker key; a badge when empty
	Screen      tcell.Screen // Nil uses the real terminal
}

// App encapsulates the core components and main loop of the editor.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	editor        *core.Editor
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	themeManager  *theme.Manager
	modeHandler   *modehandler.ModeHandler
	editorAPI     *appEditorAPI
	store         *export.Store

	pathMu    sync.RWMutex
	imagePath string
	modified  atomic.Bool

	quit      chan struct{}
	resize    utils.Debouncer
	expire    utils.Debouncer
	closeOnce sync.Once
}

// NewApp creates and initializes a new application instance.
func NewApp(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	var (
		tuiManager *tui.TUI
		err        error
	)
	if opts.Screen != nil {
		tuiManager, err = tui.NewWithScreen(opts.Screen)
	} else {
		tuiManager, err = tui.New()
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}

	stickerImage, err := loadSticker(opts.StickerPath)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}

	eventManager := event.NewManager()
	editor := core.New(
		core.WithHistoryLimit(cfg.Editor.HistoryLimit),
		core.WithQueueSize(cfg.Editor.QueueSize),
		core.WithDispatcher(tuiManager.PostFunc),
		core.WithEventManager(eventManager),
	)

	themeManager := theme.NewManager(config.ThemesDir())
	if cfg.TUI.Theme != "" {
		if err := themeManager.SetTheme(cfg.TUI.Theme); err != nil {
			logger.Warnf("App: %v, keeping '%s'", err, themeManager.Current().Name)
		}
	}
	tuiManager.SetTheme(themeManager.Current())

	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		editor:        editor,
		statusBar:     statusbar.New(statusbar.Config{MessageTimeout: cfg.TUI.MessageTimeout}),
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		themeManager:  themeManager,
		store:         store,
		quit:          make(chan struct{}),
	}
	a.editorAPI = newEditorAPI(a)

	a.modeHandler = modehandler.New(modehandler.Config{
		Editor:         editor,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      a.statusBar,
		QuitSignal:     a.quit,
		Save:           a.editorAPI.SaveImage,
		IsModified:     a.modified.Load,
		Post:           tuiManager.PostFunc,
		RegionStep:     cfg.TUI.RegionStep,
		StickerImage:   stickerImage,
	})

	a.subscribeEvents()
	editor.SetListener(a.onImageChanged)

	registerAppCommands(a)
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.pluginManager.InitializePlugins(a.editorAPI)

	if opts.ImagePath != "" {
		if err := a.Open(opts.ImagePath); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func newStore(cfg *config.Config) (*export.Store, error) {
	var storeOpts []export.Option
	if cfg.Export.CopyPath {
		storeOpts = append(storeOpts, export.WithClipboard(export.SystemClipboard{}))
	}
	store, err := export.NewStore(cfg.Export.Directory, cfg.Export.Format, cfg.Export.Quality, storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("export setup failed: %w", err)
	}
	return store, nil
}

func loadSticker(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	img, err := imageio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("sticker: %w", err)
	}
	return img, nil
}

// Open loads path and makes it the edited image.
func (a *App) Open(path string) error {
	img, err := imageio.Load(path)
	if err != nil {
		return err
	}
	if err := a.editor.SetImage(img); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	a.pathMu.Lock()
	a.imagePath = path
	a.pathMu.Unlock()
	logger.Infof("App: Opened %s", path)
	return nil
}

// ImagePath returns the path of the open image.
func (a *App) ImagePath() string {
	a.pathMu.RLock()
	defer a.pathMu.RUnlock()
	return a.imagePath
}

// Run starts the application's event loop and blocks until quit.
func (a *App) Run() error {
	defer a.Close()

	go a.eventLoop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Tint - 1-4 Filter | a Apply | u Undo | r Region | s Sticker | Ctrl+S Save | ESC Quit")
	a.requestRedraw()

	<-a.quit
	a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	if a.modified.Load() {
		logger.Warnf("App: Exited with unsaved changes.")
	}
	logger.Infof("Exiting application.")
	return nil
}

// Close shuts down plugins, the editor and the terminal.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.resize.Stop()
		a.expire.Stop()
		a.pluginManager.ShutdownPlugins()
		a.editor.Close()
		a.tuiManager.Close()
	})
}

// eventLoop handles TUI events. Key handling, posted callbacks and drawing
// all happen on this goroutine.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false
		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.resize.Debounce(resizeDelay, func() {
				a.tuiManager.PostFunc(a.tuiManager.Sync)
			})
		case *tcell.EventKey:
			needsRedraw = a.modeHandler.HandleKeyEvent(eventData)
		case *tcell.EventInterrupt:
			if fn, ok := eventData.Data().(func()); ok && fn != nil {
				fn()
			}
			needsRedraw = true
		}

		if needsRedraw {
			a.drawEditor()
		}
	}
}

// requestRedraw wakes the event loop, which redraws after every interrupt.
func (a *App) requestRedraw() {
	a.tuiManager.PostFunc(nil)
}

// currentImage avoids handing out a typed nil.
func (a *App) currentImage() image.Image {
	if img := a.editor.CurrentImage(); img != nil {
		return img
	}
	return nil
}

// GetModeHandler allows the API adapter to access the mode handler for command registration.
func (a *App) GetModeHandler() *modehandler.ModeHandler {
	return a.modeHandler
}

// GetThemeManager returns the theme manager.
func (a *App) GetThemeManager() *theme.Manager {
	return a.themeManager
}
