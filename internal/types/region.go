// Package types holds small value types shared across tint's packages.
package types

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// ErrBadRegion is returned by ParseRegion for malformed input.
var ErrBadRegion = errors.New("region: expected x,y,width,height")

// Region is an axis-aligned rectangle in image-pixel coordinates.
// A nil *Region means "the entire image".
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RegionFromRect converts an image.Rectangle into a Region.
func RegionFromRect(r image.Rectangle) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// In reports whether the region is non-empty and lies entirely inside bounds.
func (r Region) In(bounds image.Rectangle) bool {
	return !r.Empty() && r.Rect().In(bounds)
}

// Covers reports whether the region spans exactly the given bounds.
func (r Region) Covers(bounds image.Rectangle) bool {
	return r.Rect() == bounds
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// ParseRegion parses "x,y,width,height".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("%w: got %q", ErrBadRegion, s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("%w: %q: %v", ErrBadRegion, s, err)
		}
		vals[i] = v
	}
	r := Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if r.Empty() {
		return Region{}, fmt.Errorf("%w: %q has no area", ErrBadRegion, s)
	}
	return r, nil
}

// ScaleForDevice converts a selection made in display points into pixels.
// Scales at or below 1 leave the region untouched.
func (r Region) ScaleForDevice(scale float64) Region {
	if scale <= 1 {
		return r
	}
	return Region{
		X:      int(math.Round(float64(r.X) * scale)),
		Y:      int(math.Round(float64(r.Y) * scale)),
		Width:  int(math.Round(float64(r.Width) * scale)),
		Height: int(math.Round(float64(r.Height) * scale)),
	}
}

// FromNormalized maps a normalized box with a bottom-left origin (as reported
// by face detectors) into top-left-origin pixels inside frame.
func FromNormalized(nx, ny, nw, nh float64, frame Region) Region {
	fw, fh := float64(frame.Width), float64(frame.Height)
	w := nw * fw
	h := nh * fh
	y := fh - fh*ny - h
	x := nx * fw
	return Region{
		X:      frame.X + int(math.Round(x)),
		Y:      frame.Y + int(math.Round(y)),
		Width:  int(math.Round(w)),
		Height: int(math.Round(h)),
	}
}
