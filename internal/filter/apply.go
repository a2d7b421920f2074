package filter

import (
	"errors"
	"fmt"
	"image"

	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/types"
	"github.com/disintegration/imaging"
)

var (
	// ErrEmptyImage is returned when there is no pixel data to work on.
	ErrEmptyImage = errors.New("filter: empty image")
	// ErrInvalidRegion is returned when a region is empty or leaves the image.
	ErrInvalidRegion = errors.New("filter: region outside image bounds")
)

// Normalize returns img as an NRGBA image whose bounds start at the origin.
// Images that already qualify are returned as is.
func Normalize(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	return normalize(img)
}

func normalize(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// ResolveRegion validates region against bounds. A region spanning the full
// bounds collapses to nil so both spellings of "whole image" behave the same.
func ResolveRegion(bounds image.Rectangle, region *types.Region) (*types.Region, error) {
	if region == nil {
		return nil, nil
	}
	if !region.In(bounds) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrInvalidRegion, region.Rect(), bounds)
	}
	if region.Covers(bounds) {
		return nil, nil
	}
	r := *region
	return &r, nil
}

// Extract copies the pixels under region (or the whole image when nil).
func Extract(img *image.NRGBA, region *types.Region) *image.NRGBA {
	if region == nil {
		return imaging.Clone(img)
	}
	return imaging.Crop(img, region.Rect())
}

// Composite draws src over a copy of dst at region's origin. A nil region
// means src replaces dst entirely.
func Composite(dst *image.NRGBA, src image.Image, region *types.Region) *image.NRGBA {
	if region == nil {
		return normalize(src)
	}
	return imaging.Paste(dst, src, region.Rect().Min)
}

// Apply runs kind over region of img (the whole image when region is nil)
// and returns a new image; pixels outside region are copied unchanged.
func Apply(img image.Image, region *types.Region, kind Kind) (*image.NRGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	base := normalize(img)

	area, err := ResolveRegion(base.Bounds(), region)
	if err != nil {
		return nil, err
	}

	out, err := Transform(kind, Extract(base, area))
	if err != nil {
		if errors.Is(err, ErrTransformFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrTransformFailed, err)
	}

	if area == nil {
		logger.DebugTagf("filter", "Applied %s to full image %v", kind.Name(), base.Bounds().Size())
		return out, nil
	}
	logger.DebugTagf("filter", "Applied %s to region %v", kind.Name(), area.Rect())
	return Composite(base, out, area), nil
}
