package tui

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/bethropolis/tint/internal/sticker"
	"github.com/bethropolis/tint/internal/theme"
	"github.com/bethropolis/tint/internal/types"
	"github.com/disintegration/imaging"
	"github.com/gdamore/tcell/v2"
)

func newSimTUI(t *testing.T, w, h int) (*TUI, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	ui, err := NewWithScreen(sim)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ui.Close)
	sim.SetSize(w, h)
	return ui, sim
}

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		img           image.Point
		width, height int
		want          Layout
	}{
		{"wide", image.Pt(100, 50), 50, 50, Layout{Origin: image.Pt(0, 18), Size: image.Pt(50, 25), Scale: 0.5}},
		{"tall", image.Pt(10, 40), 40, 10, Layout{Origin: image.Pt(17, 0), Size: image.Pt(5, 20), Scale: 0.5}},
		{"empty", image.Pt(0, 0), 40, 10, Layout{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.img, tt.width, tt.height); got != tt.want {
				t.Errorf("Fit = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCellRect(t *testing.T) {
	l := Layout{Origin: image.Pt(2, 1), Size: image.Pt(20, 20), Scale: 1}
	got := l.CellRect(image.Rect(4, 4, 10, 8))
	want := image.Rect(6, 3, 12, 5)
	if got != want {
		t.Errorf("CellRect = %v, want %v", got, want)
	}
	if got := l.CellRect(image.Rect(-10, -10, 100, 100)); got != image.Rect(2, 1, 22, 11) {
		t.Errorf("CellRect clipped = %v", got)
	}
}

func TestDrawImageHalfBlocks(t *testing.T) {
	ui, sim := newSimTUI(t, 4, 2)
	img := imaging.New(4, 4, color.NRGBA{R: 255, A: 255})
	layout := DrawImage(ui.GetScreen(), img, 4, 2, theme.TintDark())
	ui.Show()

	if layout.Size != image.Pt(4, 4) || layout.Origin != image.Pt(0, 0) {
		t.Fatalf("layout = %+v", layout)
	}
	r, _, style, _ := sim.GetContent(1, 1)
	if r != halfBlock {
		t.Fatalf("cell rune = %q, want half block", r)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("cell colors = %v/%v, want red/red", fg, bg)
	}
}

func TestDrawImageWithoutImage(t *testing.T) {
	ui, sim := newSimTUI(t, 20, 3)
	layout := DrawImage(ui.GetScreen(), nil, 20, 3, theme.TintDark())
	if layout != (Layout{}) {
		t.Errorf("layout = %+v, want zero", layout)
	}
	if r, _, _, _ := sim.GetContent(2, 1); r != 'N' {
		t.Errorf("placeholder starts with %q", r)
	}
}

func TestDrawRegionAndStickers(t *testing.T) {
	ui, sim := newSimTUI(t, 20, 10)
	th := theme.TintDark()
	layout := Layout{Size: image.Pt(20, 20), Scale: 1}

	DrawRegion(ui.GetScreen(), layout, &types.Region{X: 2, Y: 2, Width: 6, Height: 6}, th)
	if r, _, style, _ := sim.GetContent(2, 1); r != tcell.RuneULCorner || style != th.GetStyle(theme.StyleRegion) {
		t.Errorf("region corner = %q", r)
	}
	if r, _, _, _ := sim.GetContent(7, 3); r != tcell.RuneLRCorner {
		t.Errorf("region far corner = %q", r)
	}

	layer := sticker.NewLayer(20, 20)
	layer.Add(imaging.New(4, 4, color.White))
	layer.ScaleBy(0, 0.05)
	DrawStickers(ui.GetScreen(), layout, layer, 0, th)
	fp := layout.CellRect(layer.Stickers()[0].Footprint())
	if _, _, style, _ := sim.GetContent(fp.Min.X, fp.Min.Y); style != th.GetStyle(theme.StyleStickerActive) {
		t.Error("active sticker not drawn with the active style")
	}
}

func TestPostFunc(t *testing.T) {
	ui, _ := newSimTUI(t, 10, 2)
	ran := false
	ui.PostFunc(func() { ran = true })

	done := make(chan tcell.Event, 1)
	go func() { done <- ui.PollEvent() }()
	select {
	case ev := <-done:
		in, ok := ev.(*tcell.EventInterrupt)
		if !ok {
			t.Fatalf("event = %T, want *tcell.EventInterrupt", ev)
		}
		in.Data().(func())()
	case <-time.After(2 * time.Second):
		t.Fatal("no event posted")
	}
	if !ran {
		t.Error("posted func did not run")
	}
}
