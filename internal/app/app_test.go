package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bethropolis/tint/internal/config"
	"github.com/bethropolis/tint/internal/filter"
	"github.com/disintegration/imaging"
	"github.com/gdamore/tcell/v2"
)

func writeTestImage(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 6), G: uint8(y * 8), B: 120, A: 255})
		}
	}
	path := filepath.Join(dir, "in.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Export.Directory = filepath.Join(t.TempDir(), "out")
	return cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)

	tests := []struct {
		name    string
		opts    BatchOptions
		wantErr error
	}{
		{"filter to file", BatchOptions{Filter: "noir", Output: filepath.Join(dir, "noir.jpg")}, nil},
		{"region", BatchOptions{Filter: "sepia", Region: "0,0,10,10", Output: filepath.Join(dir, "sepia.png")}, nil},
		{"sticker only", BatchOptions{StickerPath: in, Output: filepath.Join(dir, "sticker.png")}, nil},
		{"export dir", BatchOptions{Filter: "blur"}, nil},
		{"nothing", BatchOptions{}, errNothingToDo},
		{"unknown filter", BatchOptions{Filter: "vintage"}, filter.ErrUnknownFilter},
		{"bad region", BatchOptions{Filter: "noir", Region: "0,0,500,500"}, filter.ErrInvalidRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.Input = in
			opts.Config = testConfig(t)
			path, err := RunBatch(context.Background(), opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("RunBatch: %v", err)
			}
			if opts.Output != "" && path != opts.Output {
				t.Errorf("path = %q, want %q", path, opts.Output)
			}
			out, err := imaging.Open(path)
			if err != nil {
				t.Fatalf("reading result: %v", err)
			}
			if out.Bounds().Size() != image.Pt(40, 30) {
				t.Errorf("result size = %v", out.Bounds().Size())
			}
		})
	}
}

func TestRunBatchMissingInput(t *testing.T) {
	_, err := RunBatch(context.Background(), BatchOptions{Input: "/nonexistent.png", Filter: "noir"})
	if err == nil {
		t.Fatal("expected an error for a missing input")
	}
}

func TestAppInteractive(t *testing.T) {
	dir := t.TempDir()
	in := writeTestImage(t, dir)
	cfg := testConfig(t)

	sim := tcell.NewSimulationScreen("")
	a, err := NewApp(Options{Config: cfg, ImagePath: in, Screen: sim})
	if err != nil {
		t.Fatal(err)
	}
	sim.SetSize(60, 20)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	if a.ImagePath() != in || a.currentImage() == nil {
		t.Fatal("image not opened")
	}

	sim.InjectKey(tcell.KeyRune, '1', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	waitFor(t, "filter edit", func() bool { return a.editor.HistoryLen() == 1 })
	waitFor(t, "modified flag", a.modified.Load)

	sim.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	waitFor(t, "export", func() bool {
		entries, _ := os.ReadDir(cfg.Export.Directory)
		return len(entries) == 1
	})
	waitFor(t, "clean flag", func() bool { return !a.modified.Load() })

	sim.InjectKey(tcell.KeyRune, 'u', tcell.ModNone)
	waitFor(t, "undo", func() bool { return !a.editor.CanUndo() })

	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("app did not quit")
	}
}

func TestEditorAPI(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Plugins["autosave"] = map[string]interface{}{"enabled": false, "interval": "1m"}

	a, err := NewApp(Options{Config: cfg, Screen: tcell.NewSimulationScreen("")})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	api := a.editorAPI

	if api.CurrentImage() != nil {
		t.Error("CurrentImage() should be nil before an image is opened")
	}
	if _, err := api.SaveImage(); !errors.Is(err, errNoImage) {
		t.Errorf("SaveImage without image: %v", err)
	}
	if err := api.Open(writeTestImage(t, dir)); err != nil {
		t.Fatal(err)
	}
	if err := api.SelectFilter("photo-effect"); err != nil {
		t.Fatal(err)
	}
	if api.SelectedFilter() != "Photo Effect" {
		t.Errorf("SelectedFilter() = %q", api.SelectedFilter())
	}
	if v, ok := api.GetPluginConfigValue("autosave", "interval"); !ok || v != "1m" {
		t.Errorf("plugin config = %v, %v", v, ok)
	}
	if _, ok := api.GetPluginConfigValue("missing", "x"); ok {
		t.Error("config found for unknown plugin")
	}

	path := filepath.Join(dir, "copy.bmp")
	if got, err := api.SaveAs(path); err != nil || got != path {
		t.Fatalf("SaveAs = %q, %v", got, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}

	if err := api.SetTheme("tint light"); err != nil {
		t.Fatal(err)
	}
	if api.GetTheme().Name != "Tint Light" {
		t.Errorf("theme = %q", api.GetTheme().Name)
	}
	if err := api.SetTheme("nope"); err == nil {
		t.Error("unknown theme accepted")
	}
	if _, ok := a.pluginManager.GetPlugin("imagestats"); !ok {
		t.Error("imagestats plugin not registered")
	}
}
