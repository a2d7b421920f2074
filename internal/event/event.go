// internal/event/event.go
package event

import (
	"image"

	"github.com/bethropolis/tint/internal/types"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Editor events
	TypeImageLoaded       // A new source image replaced the session
	TypeImageChanged      // The current image changed for any reason
	TypeFilterSelected    // The selected filter changed
	TypeEditApplied       // A filter edit was committed
	TypeEditReverted      // The last edit was undone
	TypeEditFailed        // An edit request failed without changing state
	TypeStickersFlattened // Stickers were burned into the image

	// Export events
	TypeImageSaved

	// Application lifecycle events
	TypeAppReady
	TypeAppQuit
)

func (t Type) String() string {
	switch t {
	case TypeImageLoaded:
		return "ImageLoaded"
	case TypeImageChanged:
		return "ImageChanged"
	case TypeFilterSelected:
		return "FilterSelected"
	case TypeEditApplied:
		return "EditApplied"
	case TypeEditReverted:
		return "EditReverted"
	case TypeEditFailed:
		return "EditFailed"
	case TypeStickersFlattened:
		return "StickersFlattened"
	case TypeImageSaved:
		return "ImageSaved"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	default:
		return "Unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// ImageLoadedData describes a freshly loaded source image.
type ImageLoadedData struct {
	Size image.Point
}

// ImageChangedData carries the new current image.
type ImageChangedData struct {
	Image   image.Image
	CanUndo bool
}

// FilterSelectedData names the selected filter.
type FilterSelectedData struct {
	Filter string
}

// EditData describes a committed or reverted edit.
type EditData struct {
	Filter string
	Region *types.Region // Nil for the whole image
	Depth  int           // History depth after the operation
}

// EditFailedData carries the reason an edit was rejected.
type EditFailedData struct {
	Op  string
	Err error
}

// ImageSavedData contains the written file.
type ImageSavedData struct {
	Path string
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
