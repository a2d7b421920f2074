// plugins/imagestats/imagestats.go
package imagestats

import (
	"errors"
	"fmt"
	"image"

	"github.com/bethropolis/tint/internal/plugin"
	"github.com/disintegration/imaging"
)

// Ensure ImageStats implements plugin.Plugin
var _ plugin.Plugin = (*ImageStats)(nil)

var errNoImage = errors.New("imagestats: no image loaded")

// Stats summarizes the current image.
type Stats struct {
	Width, Height int
	Brightness    float64 // Mean luminance, 0..1
	Shadows       float64 // Share of pixels with luminance below 1/4
	Highlights    float64 // Share of pixels with luminance above 3/4
}

// Compute derives Stats from img's luminance histogram.
func Compute(img image.Image) Stats {
	b := img.Bounds()
	s := Stats{Width: b.Dx(), Height: b.Dy()}
	if b.Empty() {
		return s
	}
	hist := imaging.Histogram(img)
	for level, share := range hist {
		s.Brightness += share * float64(level) / 255
		switch {
		case level < 64:
			s.Shadows += share
		case level > 191:
			s.Highlights += share
		}
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("%dx%d, Brightness: %.0f%%, Shadows: %.0f%%, Highlights: %.0f%%",
		s.Width, s.Height, s.Brightness*100, s.Shadows*100, s.Highlights*100)
}

// ImageStats adds the :stats command.
type ImageStats struct {
	api plugin.EditorAPI
}

// New creates a new instance of the ImageStats plugin.
func New() *ImageStats {
	return &ImageStats{}
}

// Name returns the unique name of the plugin.
func (p *ImageStats) Name() string {
	return "imagestats"
}

// Initialize registers the :stats command.
func (p *ImageStats) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("stats", p.executeStats); err != nil {
		return fmt.Errorf("failed to register 'stats' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this plugin).
func (p *ImageStats) Shutdown() error {
	return nil
}

func (p *ImageStats) executeStats(args []string) error {
	if p.api == nil {
		return fmt.Errorf("imagestats plugin not initialized with API")
	}
	img := p.api.CurrentImage()
	if img == nil {
		return errNoImage
	}
	p.api.SetStatusMessage("%s, Edits: %d", Compute(img), p.api.HistoryLen())
	return nil
}
