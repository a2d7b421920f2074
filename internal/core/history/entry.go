// Package history provides the undo log for image edits.
package history

import (
	"image"

	"github.com/bethropolis/tint/internal/types"
)

// Entry records one applied edit so it can be reverted.
type Entry struct {
	Prior  *image.NRGBA  // Pixels under Region before the edit ran
	Region *types.Region // Nil when the edit covered the whole image
	Filter string        // Display name of the filter (undo-log key)
}

// FullImage reports whether the entry replaced the entire image.
func (e Entry) FullImage() bool {
	return e.Region == nil
}
