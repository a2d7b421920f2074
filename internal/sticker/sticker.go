// Package sticker keeps a set of overlay images positioned over the edited
// image and renders them into it.
package sticker

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/bethropolis/tint/internal/types"
	"github.com/disintegration/imaging"
)

// DefaultSize is the edge length a new sticker is drawn at, in pixels.
const DefaultSize = 120

var (
	// ErrNoSticker is returned for an index that does not name a sticker.
	ErrNoSticker = errors.New("sticker: no such sticker")
	// ErrEmptySticker is returned when adding a sticker without pixels.
	ErrEmptySticker = errors.New("sticker: empty image")
)

// Sticker is one overlay image.
type Sticker struct {
	Image    *image.NRGBA
	Center   image.Point
	Size     int     // Edge length before scaling
	Scale    float64 // 1 keeps Size
	Rotation float64 // Radians, counter-clockwise
}

func (s Sticker) side() int {
	side := int(math.Round(float64(s.Size) * s.Scale))
	if side < 1 {
		side = 1
	}
	return side
}

// render produces the scaled and rotated sticker pixels.
func (s Sticker) render() *image.NRGBA {
	side := s.side()
	out := imaging.Fill(s.Image, side, side, imaging.Center, imaging.Lanczos)
	if s.Rotation != 0 {
		out = imaging.Rotate(out, s.Rotation*180/math.Pi, color.Transparent)
	}
	return out
}

// Footprint returns the rectangle the rendered sticker covers.
func (s Sticker) Footprint() image.Rectangle {
	size := s.render().Bounds().Size()
	min := s.Center.Sub(size.Div(2))
	return image.Rectangle{Min: min, Max: min.Add(size)}
}

// Layer holds the stickers placed over a canvas of a fixed size.
type Layer struct {
	canvas   image.Rectangle
	stickers []Sticker
}

// NewLayer creates an empty layer over a width×height canvas.
func NewLayer(width, height int) *Layer {
	return &Layer{canvas: image.Rect(0, 0, width, height)}
}

// Canvas returns the layer's canvas bounds.
func (l *Layer) Canvas() image.Rectangle { return l.canvas }

// Len returns the number of stickers.
func (l *Layer) Len() int { return len(l.stickers) }

// Stickers returns a copy of the placed stickers.
func (l *Layer) Stickers() []Sticker {
	out := make([]Sticker, len(l.stickers))
	copy(out, l.stickers)
	return out
}

// Clone returns an independent copy of the layer. Sticker pixels are shared
// since they are never modified in place.
func (l *Layer) Clone() *Layer {
	return &Layer{canvas: l.canvas, stickers: l.Stickers()}
}

// Add places img centered on the canvas and returns its index.
func (l *Layer) Add(img image.Image) (int, error) {
	if img == nil || img.Bounds().Empty() {
		return -1, ErrEmptySticker
	}
	center := image.Pt(l.canvas.Min.X+l.canvas.Dx()/2, l.canvas.Min.Y+l.canvas.Dy()/2)
	l.stickers = append(l.stickers, Sticker{
		Image:  imaging.Clone(img),
		Center: center,
		Size:   DefaultSize,
		Scale:  1,
	})
	return len(l.stickers) - 1, nil
}

func (l *Layer) at(i int) (*Sticker, error) {
	if i < 0 || i >= len(l.stickers) {
		return nil, fmt.Errorf("%w: %d", ErrNoSticker, i)
	}
	return &l.stickers[i], nil
}

// Move shifts sticker i by (dx, dy). Moves that would put the center on or
// past the canvas edge, or lower than a quarter of the sticker above the
// bottom edge, are rejected and reported as false.
func (l *Layer) Move(i, dx, dy int) (bool, error) {
	s, err := l.at(i)
	if err != nil {
		return false, err
	}
	to := s.Center.Add(image.Pt(dx, dy))
	maxY := l.canvas.Max.Y - s.side()/4
	if to.X <= l.canvas.Min.X || to.X >= l.canvas.Max.X || to.Y <= l.canvas.Min.Y || to.Y >= maxY {
		return false, nil
	}
	s.Center = to
	return true, nil
}

// Rotate turns sticker i by radians.
func (l *Layer) Rotate(i int, radians float64) error {
	s, err := l.at(i)
	if err != nil {
		return err
	}
	s.Rotation = math.Mod(s.Rotation+radians, 2*math.Pi)
	return nil
}

// ScaleBy multiplies sticker i's scale. Non-positive factors are ignored.
func (l *Layer) ScaleBy(i int, factor float64) error {
	s, err := l.at(i)
	if err != nil {
		return err
	}
	if factor > 0 {
		s.Scale *= factor
	}
	return nil
}

// Remove deletes sticker i.
func (l *Layer) Remove(i int) error {
	if _, err := l.at(i); err != nil {
		return err
	}
	l.stickers = append(l.stickers[:i], l.stickers[i+1:]...)
	return nil
}

// Clear removes every sticker.
func (l *Layer) Clear() {
	l.stickers = nil
}

// Bounds returns the part of the canvas the stickers cover.
func (l *Layer) Bounds() (types.Region, bool) {
	var union image.Rectangle
	for _, s := range l.stickers {
		union = union.Union(s.Footprint())
	}
	union = union.Intersect(l.canvas)
	if union.Empty() {
		return types.Region{}, false
	}
	return types.RegionFromRect(union), true
}

// Render draws every sticker over a copy of base, in insertion order.
func (l *Layer) Render(base image.Image) *image.NRGBA {
	out := imaging.Clone(base)
	for _, s := range l.stickers {
		fp := s.Footprint()
		out = imaging.Overlay(out, s.render(), fp.Min, 1.0)
	}
	return out
}

// Badge draws a filled disc of color c, used when no sticker image is given.
func Badge(c color.Color) *image.NRGBA {
	img := imaging.New(DefaultSize, DefaultSize, color.Transparent)
	fill := color.NRGBAModel.Convert(c).(color.NRGBA)
	r := float64(DefaultSize) / 2
	for y := 0; y < DefaultSize; y++ {
		for x := 0; x < DefaultSize; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, fill)
			}
		}
	}
	return img
}
