package core

import (
	"context"
	"image"

	"github.com/bethropolis/tint/internal/core/history"
	"github.com/bethropolis/tint/internal/event"
	"github.com/bethropolis/tint/internal/filter"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/sticker"
	"github.com/bethropolis/tint/internal/types"
)

const stickerLogKey = "Stickers"

type jobKind int

const (
	jobApply jobKind = iota
	jobRevert
	jobFlatten
)

type job struct {
	ctx       context.Context
	kind      jobKind
	filter    filter.Kind
	hasFilter bool // Filter selection is captured when the request is queued
	region    *types.Region
	layer     *sticker.Layer
	done      chan result
}

type result struct {
	changed bool
	err     error
}

// ApplySelectedFilter applies the selected filter to region (the whole image
// when nil) and waits for the edit to commit. On success the history grows by
// one entry and the listener is notified once; on error nothing changes.
func (e *Editor) ApplySelectedFilter(ctx context.Context, region *types.Region) error {
	j := e.applyJob(ctx, region)
	if err := e.enqueue(j); err != nil {
		return err
	}
	return e.wait(j).err
}

// ApplySelectedFilterAsync queues the edit and returns immediately. The
// channel yields the edit's error (nil on success) and is then closed.
func (e *Editor) ApplySelectedFilterAsync(region *types.Region) <-chan error {
	out := make(chan error, 1)
	j := e.applyJob(context.Background(), region)
	if err := e.enqueue(j); err != nil {
		out <- err
		close(out)
		return out
	}
	go func() {
		out <- e.wait(j).err
		close(out)
	}()
	return out
}

// RevertLast undoes the most recent edit. It reports false, with no
// notification, when there is nothing to undo.
func (e *Editor) RevertLast(ctx context.Context) (bool, error) {
	j := &job{ctx: ctx, kind: jobRevert}
	if err := e.enqueue(j); err != nil {
		return false, err
	}
	r := e.wait(j)
	return r.changed, r.err
}

// RevertLastAsync queues an undo and returns immediately.
func (e *Editor) RevertLastAsync() <-chan error {
	out := make(chan error, 1)
	j := &job{ctx: context.Background(), kind: jobRevert}
	if err := e.enqueue(j); err != nil {
		out <- err
		close(out)
		return out
	}
	go func() {
		out <- e.wait(j).err
		close(out)
	}()
	return out
}

// FlattenStickers burns the layer's stickers into the current image as one
// undoable edit covering the stickers' bounds.
func (e *Editor) FlattenStickers(ctx context.Context, layer *sticker.Layer) error {
	j := &job{ctx: ctx, kind: jobFlatten, layer: layer}
	if err := e.enqueue(j); err != nil {
		return err
	}
	return e.wait(j).err
}

func (e *Editor) applyJob(ctx context.Context, region *types.Region) *job {
	k, ok := e.SelectedFilter()
	return &job{ctx: ctx, kind: jobApply, filter: k, hasFilter: ok, region: copyRegion(region)}
}

func copyRegion(r *types.Region) *types.Region {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func (e *Editor) enqueue(j *job) error {
	j.done = make(chan result, 1)
	select {
	case <-e.quit:
		return ErrClosed
	default:
	}
	select {
	case e.jobs <- j:
		return nil
	case <-e.quit:
		return ErrClosed
	case <-j.ctx.Done():
		return j.ctx.Err()
	}
}

// wait returns the job's outcome. When the editor closes first, it waits for
// the worker to stop so an edit that committed is still reported as done.
func (e *Editor) wait(j *job) result {
	select {
	case r := <-j.done:
		return r
	case <-e.quit:
	}
	e.wg.Wait()
	select {
	case r := <-j.done:
		return r
	default:
		return result{err: ErrClosed}
	}
}

// run is the worker loop; it is the only goroutine that commits edits.
func (e *Editor) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			e.drain()
			return
		case j := <-e.jobs:
			j.done <- e.process(j)
		}
	}
}

func (e *Editor) drain() {
	for {
		select {
		case j := <-e.jobs:
			j.done <- result{err: ErrClosed}
		default:
			return
		}
	}
}

func (e *Editor) process(j *job) result {
	if err := j.ctx.Err(); err != nil {
		return result{err: err}
	}
	switch j.kind {
	case jobApply:
		return e.processApply(j)
	case jobRevert:
		return e.processRevert()
	case jobFlatten:
		return e.processFlatten(j)
	}
	return result{}
}

// begin snapshots the image an edit starts from and marks the editor busy.
func (e *Editor) begin() (img *image.NRGBA, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.editing = true
	}
	return e.current, e.generation
}

func (e *Editor) endEditing() {
	e.mu.Lock()
	e.editing = false
	e.mu.Unlock()
}

func (e *Editor) processApply(j *job) result {
	img, gen := e.begin()
	if img == nil {
		return e.fail("apply", ErrNoImage)
	}
	if !j.hasFilter {
		e.endEditing()
		return e.fail("apply", ErrNoFilterSelected)
	}

	area, err := filter.ResolveRegion(img.Bounds(), j.region)
	if err != nil {
		e.endEditing()
		return e.fail("apply", err)
	}
	out, err := filter.Apply(img, area, j.filter)
	if err != nil {
		e.endEditing()
		return e.fail("apply", err)
	}

	entry := history.Entry{Prior: filter.Extract(img, area), Region: area, Filter: j.filter.Name()}
	return e.commit(j.ctx, gen, out, entry, event.TypeEditApplied)
}

func (e *Editor) processFlatten(j *job) result {
	img, gen := e.begin()
	if img == nil {
		return e.fail("flatten", ErrNoImage)
	}
	if j.layer == nil || j.layer.Len() == 0 {
		e.endEditing()
		return e.fail("flatten", ErrNoStickers)
	}
	bounds, ok := j.layer.Bounds()
	if !ok {
		e.endEditing()
		return e.fail("flatten", ErrNoStickers)
	}
	area, err := filter.ResolveRegion(img.Bounds(), &bounds)
	if err != nil {
		e.endEditing()
		return e.fail("flatten", err)
	}

	out := j.layer.Render(img)
	entry := history.Entry{Prior: filter.Extract(img, area), Region: area, Filter: stickerLogKey}
	return e.commit(j.ctx, gen, out, entry, event.TypeStickersFlattened)
}

// commit installs out as the current image unless the request was cancelled
// or the image was replaced while the transform ran.
func (e *Editor) commit(ctx context.Context, gen uint64, out *image.NRGBA, entry history.Entry, t event.Type) result {
	if e.beforeCommit != nil {
		e.beforeCommit()
	}
	if err := ctx.Err(); err != nil {
		e.endEditing()
		logger.DebugTagf("editor", "Discarded %s: %v", entry.Filter, err)
		return result{err: err}
	}

	e.mu.Lock()
	e.editing = false
	if e.generation != gen {
		e.mu.Unlock()
		return e.fail("commit", ErrImageReplaced)
	}
	e.history.Push(entry)
	e.current = out
	depth := e.history.Len()
	e.mu.Unlock()

	logger.InfoTagf("editor", "Applied %s (region=%v, depth=%d)", entry.Filter, entry.Region, depth)
	e.notify(out)
	e.publish(t, event.EditData{Filter: entry.Filter, Region: entry.Region, Depth: depth})
	e.publish(event.TypeImageChanged, event.ImageChangedData{Image: out, CanUndo: true})
	return result{changed: true}
}

func (e *Editor) processRevert() result {
	e.mu.Lock()
	entry, ok := e.history.Pop()
	if !ok {
		e.mu.Unlock()
		logger.DebugTagf("editor", "Nothing to revert.")
		return result{}
	}
	restored := filter.Composite(e.current, entry.Prior, entry.Region)
	e.current = restored
	depth := e.history.Len()
	e.mu.Unlock()

	logger.InfoTagf("editor", "Reverted %s (depth=%d)", entry.Filter, depth)
	e.notify(restored)
	e.publish(event.TypeEditReverted, event.EditData{Filter: entry.Filter, Region: entry.Region, Depth: depth})
	e.publish(event.TypeImageChanged, event.ImageChangedData{Image: restored, CanUndo: depth > 0})
	return result{changed: true}
}

func (e *Editor) fail(op string, err error) result {
	logger.Warnf("Editor: %s failed: %v", op, err)
	e.publish(event.TypeEditFailed, event.EditFailedData{Op: op, Err: err})
	return result{err: err}
}
