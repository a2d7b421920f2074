package core

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/bethropolis/tint/internal/event"
	"github.com/bethropolis/tint/internal/filter"
	"github.com/bethropolis/tint/internal/sticker"
	"github.com/bethropolis/tint/internal/types"
)

func patternImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: uint8(x * 37 % 256), G: uint8(y * 59 % 256), B: uint8((x + y) * 13 % 256), A: 255}
			if (x/3+y/3)%2 == 0 {
				c.R, c.G = 255-c.R, 255-c.G
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func samePixels(a, b *image.NRGBA, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if a.NRGBAAt(x, y) != b.NRGBAAt(x, y) {
				return false
			}
		}
	}
	return true
}

func equalImages(a, b *image.NRGBA) bool {
	return a.Bounds() == b.Bounds() && samePixels(a, b, a.Bounds())
}

// listenerCounter counts notifications and keeps the last image.
type listenerCounter struct {
	mu    sync.Mutex
	calls int
	last  image.Image
}

func (l *listenerCounter) listen(img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	l.last = img
}

func (l *listenerCounter) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func newTestEditor(t *testing.T, opts ...Option) (*Editor, *listenerCounter, *image.NRGBA) {
	t.Helper()
	e := New(opts...)
	t.Cleanup(e.Close)

	src := patternImage(100, 100)
	if err := e.SetImage(src); err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}
	lc := &listenerCounter{}
	e.SetListener(lc.listen)
	return e, lc, src
}

func TestRevertOnEmptyHistoryIsNoOp(t *testing.T) {
	e, lc, src := newTestEditor(t)

	changed, err := e.RevertLast(context.Background())
	if err != nil {
		t.Fatalf("RevertLast() error = %v", err)
	}
	if changed {
		t.Error("RevertLast() reported a change with empty history")
	}
	if lc.count() != 0 {
		t.Errorf("listener called %d times, want 0", lc.count())
	}
	if !equalImages(e.CurrentImage(), src) {
		t.Error("image changed after no-op revert")
	}
	if e.CanUndo() {
		t.Error("CanUndo() = true with empty history")
	}
}

func TestApplyRevertRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		kind   filter.Kind
		region *types.Region
	}{
		{"full sepia", filter.Sepia, nil},
		{"full noir", filter.Noir, nil},
		{"region blur", filter.Blur, &types.Region{X: 10, Y: 10, Width: 20, Height: 20}},
		{"region photo effect", filter.PhotoEffect, &types.Region{X: 0, Y: 50, Width: 100, Height: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, lc, src := newTestEditor(t)
			ctx := context.Background()

			if err := e.SelectFilter(tt.kind); err != nil {
				t.Fatalf("SelectFilter() error = %v", err)
			}
			if err := e.ApplySelectedFilter(ctx, tt.region); err != nil {
				t.Fatalf("ApplySelectedFilter() error = %v", err)
			}
			if lc.count() != 1 {
				t.Errorf("listener called %d times after apply, want 1", lc.count())
			}
			if e.HistoryLen() != 1 || !e.CanUndo() {
				t.Errorf("HistoryLen() = %d, CanUndo() = %v; want 1, true", e.HistoryLen(), e.CanUndo())
			}
			edited := e.CurrentImage()
			if edited.Bounds() != src.Bounds() {
				t.Fatalf("edited bounds = %v, want %v", edited.Bounds(), src.Bounds())
			}
			if equalImages(edited, src) {
				t.Error("apply did not change the image")
			}
			if tt.region != nil {
				// Outside the region nothing may change.
				r := tt.region.Rect()
				for y := 0; y < 100; y++ {
					for x := 0; x < 100; x++ {
						if image.Pt(x, y).In(r) {
							continue
						}
						if edited.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
							t.Fatalf("pixel (%d,%d) outside region changed", x, y)
						}
					}
				}
			}

			changed, err := e.RevertLast(ctx)
			if err != nil || !changed {
				t.Fatalf("RevertLast() = %v, %v; want true, nil", changed, err)
			}
			if !equalImages(e.CurrentImage(), src) {
				t.Error("revert did not restore the original pixels")
			}
			if lc.count() != 2 {
				t.Errorf("listener called %d times, want 2", lc.count())
			}
			if e.CanUndo() {
				t.Error("CanUndo() = true after reverting the only edit")
			}
		})
	}
}

func TestRevertUnwindsInOrder(t *testing.T) {
	e, _, src := newTestEditor(t)
	ctx := context.Background()

	steps := []struct {
		kind   filter.Kind
		region *types.Region
	}{
		{filter.Sepia, nil},
		{filter.Blur, &types.Region{X: 5, Y: 5, Width: 40, Height: 40}},
		{filter.Noir, &types.Region{X: 30, Y: 30, Width: 50, Height: 20}},
		{filter.PhotoEffect, nil},
	}
	snapshots := []*image.NRGBA{src}
	for _, s := range steps {
		if err := e.SelectFilter(s.kind); err != nil {
			t.Fatal(err)
		}
		if err := e.ApplySelectedFilter(ctx, s.region); err != nil {
			t.Fatalf("apply %s: %v", s.kind, err)
		}
		snapshots = append(snapshots, e.CurrentImage())
	}
	if e.HistoryLen() != len(steps) {
		t.Fatalf("HistoryLen() = %d, want %d", e.HistoryLen(), len(steps))
	}

	for i := len(steps) - 1; i >= 0; i-- {
		if _, err := e.RevertLast(ctx); err != nil {
			t.Fatal(err)
		}
		if !equalImages(e.CurrentImage(), snapshots[i]) {
			t.Fatalf("after reverting step %d image differs from snapshot", i)
		}
		if e.HistoryLen() != i {
			t.Errorf("HistoryLen() = %d, want %d", e.HistoryLen(), i)
		}
	}
}

func TestApplyWithoutFilterSelected(t *testing.T) {
	e, lc, src := newTestEditor(t)

	err := e.ApplySelectedFilter(context.Background(), nil)
	if !errors.Is(err, ErrNoFilterSelected) {
		t.Fatalf("error = %v, want ErrNoFilterSelected", err)
	}
	if lc.count() != 0 || e.CanUndo() {
		t.Error("failed apply notified the listener or grew the history")
	}
	if !equalImages(e.CurrentImage(), src) {
		t.Error("failed apply changed the image")
	}
	if e.State() != StateIdle {
		t.Errorf("State() = %v, want Idle", e.State())
	}
}

func TestApplyWithoutImage(t *testing.T) {
	e := New()
	defer e.Close()
	if e.State() != StateNoImage {
		t.Errorf("State() = %v, want NoImage", e.State())
	}
	_ = e.SelectFilter(filter.Sepia)
	if err := e.ApplySelectedFilter(context.Background(), nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("error = %v, want ErrNoImage", err)
	}
	if err := e.SetImage(nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("SetImage(nil) error = %v, want ErrEmptyImage", err)
	}
}

func TestApplyInvalidRegion(t *testing.T) {
	e, lc, src := newTestEditor(t)
	_ = e.SelectFilter(filter.Blur)

	regions := []types.Region{
		{X: 90, Y: 90, Width: 20, Height: 20},
		{X: -5, Y: 0, Width: 10, Height: 10},
		{X: 10, Y: 10, Width: 0, Height: 10},
	}
	for _, r := range regions {
		r := r
		err := e.ApplySelectedFilter(context.Background(), &r)
		if !errors.Is(err, ErrInvalidRegion) {
			t.Errorf("region %v: error = %v, want ErrInvalidRegion", r, err)
		}
	}
	if lc.count() != 0 || e.CanUndo() || !equalImages(e.CurrentImage(), src) {
		t.Error("invalid region changed editor state")
	}
}

func TestFullRegionMatchesNoRegion(t *testing.T) {
	ctx := context.Background()

	withNil, _, _ := newTestEditor(t)
	_ = withNil.SelectFilter(filter.Sepia)
	if err := withNil.ApplySelectedFilter(ctx, nil); err != nil {
		t.Fatal(err)
	}

	withFull, _, _ := newTestEditor(t)
	_ = withFull.SelectFilter(filter.Sepia)
	full := types.Region{Width: 100, Height: 100}
	if err := withFull.ApplySelectedFilter(ctx, &full); err != nil {
		t.Fatal(err)
	}

	if !equalImages(withNil.CurrentImage(), withFull.CurrentImage()) {
		t.Error("full-image region differs from absent region")
	}
}

func TestSetImageClearsHistory(t *testing.T) {
	e, lc, _ := newTestEditor(t)
	_ = e.SelectFilter(filter.Noir)
	if err := e.ApplySelectedFilter(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	next := solidImage(40, 30, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	if err := e.SetImage(next); err != nil {
		t.Fatal(err)
	}
	if e.CanUndo() {
		t.Error("history survived SetImage")
	}
	if lc.count() != 2 {
		t.Errorf("listener called %d times, want 2", lc.count())
	}
	if !equalImages(e.CurrentImage(), next) {
		t.Error("CurrentImage() is not the new image")
	}
	// The editor keeps its own copy.
	next.SetNRGBA(0, 0, color.NRGBA{})
	if e.CurrentImage().NRGBAAt(0, 0) == (color.NRGBA{}) {
		t.Error("SetImage did not copy the source image")
	}
}

func TestAsyncEditsKeepSubmissionOrder(t *testing.T) {
	e, _, src := newTestEditor(t)

	_ = e.SelectFilter(filter.Sepia)
	first := e.ApplySelectedFilterAsync(nil)
	_ = e.SelectFilter(filter.Blur)
	second := e.ApplySelectedFilterAsync(&types.Region{X: 20, Y: 20, Width: 30, Height: 30})
	undo := e.RevertLastAsync()

	for i, ch := range []<-chan error{first, second, undo} {
		if err := <-ch; err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	want, err := filter.Apply(src, nil, filter.Sepia)
	if err != nil {
		t.Fatal(err)
	}
	if e.HistoryLen() != 1 {
		t.Errorf("HistoryLen() = %d, want 1", e.HistoryLen())
	}
	if !equalImages(e.CurrentImage(), want) {
		t.Error("edits were not applied in submission order")
	}
}

func TestCancelledContext(t *testing.T) {
	e, lc, _ := newTestEditor(t)
	_ = e.SelectFilter(filter.Sepia)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.ApplySelectedFilter(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if lc.count() != 0 || e.CanUndo() {
		t.Error("cancelled edit changed editor state")
	}
}

func TestCancelledBeforeCommit(t *testing.T) {
	e, lc, src := newTestEditor(t)
	_ = e.SelectFilter(filter.Blur)

	ctx, cancel := context.WithCancel(context.Background())
	var state State
	e.beforeCommit = func() {
		state = e.State()
		cancel()
	}
	if err := e.ApplySelectedFilter(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if state != StateEditing {
		t.Errorf("State() during edit = %v, want Editing", state)
	}
	if e.State() != StateIdle {
		t.Errorf("State() after cancel = %v, want Idle", e.State())
	}
	if lc.count() != 0 || e.CanUndo() || !equalImages(e.CurrentImage(), src) {
		t.Error("edit cancelled before commit changed editor state")
	}
}

func TestImageReplacedDuringEdit(t *testing.T) {
	e, _, _ := newTestEditor(t)
	_ = e.SelectFilter(filter.Noir)

	replacement := solidImage(10, 10, color.NRGBA{R: 9, G: 9, B: 9, A: 255})
	e.beforeCommit = func() {
		e.beforeCommit = nil
		if err := e.SetImage(replacement); err != nil {
			t.Error(err)
		}
	}
	if err := e.ApplySelectedFilter(context.Background(), nil); !errors.Is(err, ErrImageReplaced) {
		t.Fatalf("error = %v, want ErrImageReplaced", err)
	}
	if !equalImages(e.CurrentImage(), replacement) {
		t.Error("stale edit overwrote the replacement image")
	}
	if e.CanUndo() {
		t.Error("stale edit was recorded in history")
	}
}

func TestDispatcherReceivesNotifications(t *testing.T) {
	var mu sync.Mutex
	dispatched := 0
	d := func(fn func()) {
		mu.Lock()
		dispatched++
		mu.Unlock()
		fn()
	}
	e, lc, _ := newTestEditor(t, WithDispatcher(d))

	_ = e.SelectFilter(filter.Sepia)
	if err := e.ApplySelectedFilter(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	// SetImage ran before the listener was installed, so only the edit counts.
	if dispatched != 1 || lc.count() != 1 {
		t.Errorf("dispatched = %d, listener = %d; want 1, 1", dispatched, lc.count())
	}
}

func TestHistoryLimit(t *testing.T) {
	e, _, _ := newTestEditor(t, WithHistoryLimit(2))
	_ = e.SelectFilter(filter.Sepia)
	for i := 0; i < 4; i++ {
		if err := e.ApplySelectedFilter(context.Background(), nil); err != nil {
			t.Fatal(err)
		}
	}
	if e.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d, want 2", e.HistoryLen())
	}
}

func TestClosedEditor(t *testing.T) {
	e := New(WithQueueSize(1))
	_ = e.SetImage(patternImage(8, 8))
	_ = e.SelectFilter(filter.Sepia)
	e.Close()
	e.Close()

	if err := e.ApplySelectedFilter(context.Background(), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("apply error = %v, want ErrClosed", err)
	}
	if _, err := e.RevertLast(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("revert error = %v, want ErrClosed", err)
	}
	if err := <-e.ApplySelectedFilterAsync(nil); !errors.Is(err, ErrClosed) {
		t.Errorf("async error = %v, want ErrClosed", err)
	}
}

func TestCloseDuringCommitReportsCommittedEdit(t *testing.T) {
	for i := 0; i < 20; i++ {
		e, _, _ := newTestEditor(t)
		_ = e.SelectFilter(filter.Sepia)

		closed := make(chan struct{})
		e.beforeCommit = func() {
			go func() {
				e.Close()
				close(closed)
			}()
			<-e.quit
		}
		if err := e.ApplySelectedFilter(context.Background(), nil); err != nil {
			t.Fatalf("run %d: error = %v, want nil for a committed edit", i, err)
		}
		<-closed
		if e.HistoryLen() != 1 {
			t.Fatalf("run %d: HistoryLen() = %d, want 1", i, e.HistoryLen())
		}
	}
}

func TestFlattenStickers(t *testing.T) {
	e, lc, src := newTestEditor(t)
	ctx := context.Background()

	layer := sticker.NewLayer(100, 100)
	if err := e.FlattenStickers(ctx, layer); !errors.Is(err, ErrNoStickers) {
		t.Errorf("empty layer error = %v, want ErrNoStickers", err)
	}

	idx, err := layer.Add(solidImage(16, 16, color.NRGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	if err := layer.ScaleBy(idx, 0.25); err != nil {
		t.Fatal(err)
	}
	if err := e.FlattenStickers(ctx, layer); err != nil {
		t.Fatalf("FlattenStickers() error = %v", err)
	}
	if lc.count() != 1 || e.HistoryLen() != 1 {
		t.Errorf("listener = %d, history = %d; want 1, 1", lc.count(), e.HistoryLen())
	}
	if got := e.CurrentImage().NRGBAAt(50, 50); got.R != 255 || got.G != 0 {
		t.Errorf("center pixel = %v, want sticker red", got)
	}
	if !samePixels(e.CurrentImage(), src, image.Rect(0, 0, 100, 10)) {
		t.Error("flatten touched pixels outside the sticker")
	}

	if _, err := e.RevertLast(ctx); err != nil {
		t.Fatal(err)
	}
	if !equalImages(e.CurrentImage(), src) {
		t.Error("revert did not remove the flattened sticker")
	}
}

func TestEditorEvents(t *testing.T) {
	m := event.NewManager()
	var mu sync.Mutex
	var got []event.Type
	record := func(ev event.Event) bool {
		mu.Lock()
		got = append(got, ev.Type)
		mu.Unlock()
		return false
	}
	for _, typ := range []event.Type{
		event.TypeImageLoaded, event.TypeFilterSelected, event.TypeEditApplied,
		event.TypeEditReverted, event.TypeEditFailed,
	} {
		m.Subscribe(typ, record)
	}

	e := New(WithEventManager(m), WithSessionID("test-session"))
	defer e.Close()
	if e.SessionID() != "test-session" {
		t.Errorf("SessionID() = %q", e.SessionID())
	}

	ctx := context.Background()
	_ = e.SetImage(patternImage(20, 20))
	_ = e.ApplySelectedFilter(ctx, nil)
	_ = e.SelectFilter(filter.Noir)
	_ = e.ApplySelectedFilter(ctx, nil)
	_, _ = e.RevertLast(ctx)

	want := []event.Type{
		event.TypeImageLoaded, event.TypeEditFailed, event.TypeFilterSelected,
		event.TypeEditApplied, event.TypeEditReverted,
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{StateNoImage: "NoImage", StateIdle: "Idle", StateEditing: "Editing", State(9): "Unknown"}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
