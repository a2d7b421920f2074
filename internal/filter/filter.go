// Package filter implements the fixed set of named image filters and the
// applier that runs them over a whole image or a sub-region.
package filter

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/gift"
)

// Fixed filter parameters. They are deliberately not user-configurable.
const (
	SepiaIntensity = 0.90
	BlurRadius     = 6.0
)

var (
	// ErrUnknownFilter is returned for names or kinds outside the known set.
	ErrUnknownFilter = errors.New("filter: unknown filter")
	// ErrTransformFailed is returned when a transform produces no usable output.
	ErrTransformFailed = errors.New("filter: transform produced no output")
)

// Kind identifies one of the built-in filters.
type Kind int

const (
	Sepia Kind = iota
	Blur
	PhotoEffect
	Noir
)

var kinds = []Kind{Sepia, Blur, PhotoEffect, Noir}

// All returns every filter in menu order.
func All() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Name returns the display name, which also keys the undo log.
func (k Kind) Name() string {
	switch k {
	case Sepia:
		return "Sepia"
	case Blur:
		return "Blur"
	case PhotoEffect:
		return "Photo Effect"
	case Noir:
		return "Noir"
	default:
		return "Unknown"
	}
}

func (k Kind) String() string { return k.Name() }

// Valid reports whether k is one of the built-in filters.
func (k Kind) Valid() bool {
	return k >= Sepia && k <= Noir
}

// Lookup resolves a display name (case-insensitive) or a CLI-friendly alias.
func Lookup(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	switch key {
	case "sepia":
		return Sepia, nil
	case "blur", "gaussian blur":
		return Blur, nil
	case "photo effect", "photoeffect", "process":
		return PhotoEffect, nil
	case "noir":
		return Noir, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}

// pipeline builds the gift filter list for a kind.
func pipeline(k Kind) (*gift.GIFT, error) {
	switch k {
	case Sepia:
		return gift.New(gift.Sepia(SepiaIntensity * 100)), nil
	case Blur:
		return gift.New(gift.GaussianBlur(BlurRadius)), nil
	case PhotoEffect:
		// Cool shadows, warm cast and a little punch, close to a cross-process look.
		return gift.New(
			gift.ColorBalance(8, 2, -6),
			gift.Contrast(15),
			gift.Saturation(-10),
		), nil
	case Noir:
		return gift.New(
			gift.Grayscale(),
			gift.Contrast(30),
		), nil
	}
	return nil, fmt.Errorf("%w: kind %d", ErrUnknownFilter, int(k))
}

// Transform runs the filter over src and returns a same-size image.
// src is never modified.
func Transform(k Kind, src image.Image) (*image.NRGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	g, err := pipeline(k)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	if dst.Bounds().Size() != src.Bounds().Size() {
		return nil, fmt.Errorf("%w: %s changed size %v -> %v",
			ErrTransformFailed, k.Name(), src.Bounds().Size(), dst.Bounds().Size())
	}
	return normalize(dst), nil
}
