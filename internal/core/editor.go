// internal/core/editor.go
package core

import (
	"errors"
	"image"
	"sync"

	"github.com/bethropolis/tint/internal/core/history"
	"github.com/bethropolis/tint/internal/event"
	"github.com/bethropolis/tint/internal/filter"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var (
	ErrNoImage          = errors.New("editor: no image loaded")
	ErrNoFilterSelected = errors.New("editor: no filter selected")
	ErrImageReplaced    = errors.New("editor: image replaced while edit was in flight")
	ErrNoStickers       = errors.New("editor: no stickers to flatten")
	ErrClosed           = errors.New("editor: closed")

	// Re-exported so callers can match applier failures without importing filter.
	ErrEmptyImage      = filter.ErrEmptyImage
	ErrInvalidRegion   = filter.ErrInvalidRegion
	ErrTransformFailed = filter.ErrTransformFailed
)

const defaultQueueSize = 16

// State is the editor's position in its NoImage -> Idle <-> Editing cycle.
type State int

const (
	StateNoImage State = iota
	StateIdle
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateNoImage:
		return "NoImage"
	case StateIdle:
		return "Idle"
	case StateEditing:
		return "Editing"
	default:
		return "Unknown"
	}
}

// Listener receives the new current image every time it changes.
type Listener func(img image.Image)

// Dispatcher runs fn on the goroutine that owns the UI. The default runs it inline.
type Dispatcher func(fn func())

func inline(fn func()) { fn() }

// Editor owns the current image, the selected filter and the undo history.
// Edits are processed one at a time, in submission order, by a single worker.
type Editor struct {
	mu         sync.Mutex
	current    *image.NRGBA
	selected   filter.Kind
	hasFilter  bool
	history    *history.Stack
	generation uint64 // Bumped by SetImage; stale edits are discarded
	editing    bool

	listener  Listener
	dispatch  Dispatcher
	events    *event.Manager
	sessionID string

	jobs      chan *job
	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	beforeCommit func() // test hook, runs on the worker before an edit commits
}

// Option configures an Editor.
type Option func(*Editor)

// WithHistoryLimit caps the undo depth. Zero keeps every edit.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) { e.history = history.NewStack(n) }
}

// WithQueueSize sets how many edit requests may wait behind the running one.
func WithQueueSize(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.jobs = make(chan *job, n)
		}
	}
}

// WithDispatcher routes listener calls through d.
func WithDispatcher(d Dispatcher) Option {
	return func(e *Editor) {
		if d != nil {
			e.dispatch = d
		}
	}
}

// WithEventManager publishes editor events on m.
func WithEventManager(m *event.Manager) Option {
	return func(e *Editor) { e.events = m }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(e *Editor) {
		if id != "" {
			e.sessionID = id
		}
	}
}

// New creates an Editor and starts its worker. Call Close when done.
func New(opts ...Option) *Editor {
	e := &Editor{
		history:   history.NewStack(history.DefaultMaxHistory),
		dispatch:  inline,
		sessionID: uuid.NewString(),
		jobs:      make(chan *job, defaultQueueSize),
		quit:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.wg.Add(1)
	go e.run()
	logger.DebugTagf("editor", "Session %s started", e.sessionID)
	return e
}

// Close stops the worker. Pending requests fail with ErrClosed.
func (e *Editor) Close() {
	e.closeOnce.Do(func() {
		close(e.quit)
		e.wg.Wait()
		logger.DebugTagf("editor", "Session %s closed", e.sessionID)
	})
}

// SessionID identifies this editing session in logs and exported file names.
func (e *Editor) SessionID() string {
	return e.sessionID
}

// SetListener installs the single change listener; nil removes it.
func (e *Editor) SetListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// SetImage replaces the current image and clears the history. Edits still in
// flight for the previous image are discarded.
func (e *Editor) SetImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	n := imaging.Clone(img)

	e.mu.Lock()
	e.current = n
	e.generation++
	e.history.Clear()
	e.mu.Unlock()

	logger.InfoTagf("editor", "Loaded image %dx%d", n.Bounds().Dx(), n.Bounds().Dy())
	e.notify(n)
	e.publish(event.TypeImageLoaded, event.ImageLoadedData{Size: n.Bounds().Size()})
	e.publish(event.TypeImageChanged, event.ImageChangedData{Image: n, CanUndo: false})
	return nil
}

// SelectFilter records the filter used by the next ApplySelectedFilter.
func (e *Editor) SelectFilter(k filter.Kind) error {
	if !k.Valid() {
		return filter.ErrUnknownFilter
	}
	e.mu.Lock()
	e.selected = k
	e.hasFilter = true
	e.mu.Unlock()

	logger.DebugTagf("editor", "Selected filter %s", k.Name())
	e.publish(event.TypeFilterSelected, event.FilterSelectedData{Filter: k.Name()})
	return nil
}

// SelectedFilter returns the selected filter, if any.
func (e *Editor) SelectedFilter() (filter.Kind, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected, e.hasFilter
}

// CurrentImage returns the current image, or nil before SetImage.
// The returned image must not be modified.
func (e *Editor) CurrentImage() *image.NRGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// CanUndo reports whether RevertLast would change the image.
func (e *Editor) CanUndo() bool {
	return !e.history.IsEmpty()
}

// HistoryLen returns the number of edits that can be reverted.
func (e *Editor) HistoryLen() int {
	return e.history.Len()
}

// State returns where the editor is in its lifecycle.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.current == nil:
		return StateNoImage
	case e.editing:
		return StateEditing
	default:
		return StateIdle
	}
}

// notify hands img to the listener through the dispatcher.
func (e *Editor) notify(img *image.NRGBA) {
	e.mu.Lock()
	l, d := e.listener, e.dispatch
	e.mu.Unlock()
	if l == nil {
		return
	}
	d(func() { l(img) })
}

func (e *Editor) publish(t event.Type, data interface{}) {
	if e.events != nil {
		e.events.Dispatch(t, data)
	}
}
