// internal/tui/drawing.go
package tui

import (
	"image"
	"image/color"
	"math"

	"github.com/bethropolis/tint/internal/sticker"
	"github.com/bethropolis/tint/internal/theme"
	"github.com/bethropolis/tint/internal/types"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

// halfBlock paints the top pixel as foreground and the bottom one as background.
const halfBlock = '▀'

// Layout maps image pixels onto terminal cells. Each cell shows one pixel
// column and two pixel rows of the scaled image.
type Layout struct {
	Origin image.Point // Top-left cell of the picture
	Size   image.Point // Scaled picture size in pixels
	Scale  float64     // Scaled pixels per image pixel
}

// Fit centers an image of imgSize inside a width×height cell area.
func Fit(imgSize image.Point, width, height int) Layout {
	if imgSize.X <= 0 || imgSize.Y <= 0 || width <= 0 || height <= 0 {
		return Layout{}
	}
	scale := math.Min(float64(width)/float64(imgSize.X), float64(2*height)/float64(imgSize.Y))
	size := image.Pt(
		max(int(math.Round(float64(imgSize.X)*scale)), 1),
		max(int(math.Round(float64(imgSize.Y)*scale)), 1),
	)
	return Layout{
		Origin: image.Pt((width-size.X)/2, (height-(size.Y+1)/2)/2),
		Size:   size,
		Scale:  scale,
	}
}

// CellRect returns the cells covering r, in image pixel coordinates.
func (l Layout) CellRect(r image.Rectangle) image.Rectangle {
	x0 := int(math.Floor(float64(r.Min.X) * l.Scale))
	x1 := int(math.Ceil(float64(r.Max.X) * l.Scale))
	y0 := int(math.Floor(float64(r.Min.Y)*l.Scale)) / 2
	y1 := (int(math.Ceil(float64(r.Max.Y)*l.Scale)) + 1) / 2
	cells := image.Rect(x0, y0, x1, y1).Add(l.Origin)
	return cells.Intersect(image.Rectangle{Min: l.Origin, Max: l.Origin.Add(image.Pt(l.Size.X, (l.Size.Y+1)/2))})
}

// DrawImage renders img scaled to fit the area above the status bar and
// returns the layout used.
func DrawImage(screen tcell.Screen, img image.Image, width, height int, activeTheme *theme.Theme) Layout {
	canvas := activeTheme.GetStyle(theme.StyleCanvas)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			screen.SetContent(x, y, ' ', nil, canvas)
		}
	}
	if img == nil {
		drawCentered(screen, "No image loaded", width, height, canvas)
		return Layout{}
	}

	layout := Fit(img.Bounds().Size(), width, height)
	if layout.Size == (image.Point{}) {
		return layout
	}
	scaled := image.NewRGBA(image.Rect(0, 0, layout.Size.X, layout.Size.Y))
	draw.Draw(scaled, scaled.Bounds(), image.NewUniform(backgroundOf(canvas)), image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)

	for py := 0; py < layout.Size.Y; py += 2 {
		for px := 0; px < layout.Size.X; px++ {
			top := toColor(scaled.RGBAAt(px, py))
			bottom := top
			if py+1 < layout.Size.Y {
				bottom = toColor(scaled.RGBAAt(px, py+1))
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(layout.Origin.X+px, layout.Origin.Y+py/2, halfBlock, nil, style)
		}
	}
	return layout
}

// DrawRegion outlines the selected region.
func DrawRegion(screen tcell.Screen, layout Layout, region *types.Region, activeTheme *theme.Theme) {
	if region == nil || layout.Scale == 0 {
		return
	}
	drawBox(screen, layout.CellRect(region.Rect()), activeTheme.GetStyle(theme.StyleRegion))
}

// DrawStickers outlines each sticker's footprint; the active one uses the
// "Sticker.active" style.
func DrawStickers(screen tcell.Screen, layout Layout, layer *sticker.Layer, active int, activeTheme *theme.Theme) {
	if layer == nil || layout.Scale == 0 {
		return
	}
	for i, s := range layer.Stickers() {
		style := activeTheme.GetStyle(theme.StyleSticker)
		if i == active {
			style = activeTheme.GetStyle(theme.StyleStickerActive)
		}
		drawBox(screen, layout.CellRect(s.Footprint()), style)
	}
}

func drawBox(screen tcell.Screen, r image.Rectangle, style tcell.Style) {
	if r.Dx() < 1 || r.Dy() < 1 {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	for x := x0; x <= x1; x++ {
		screen.SetContent(x, y0, tcell.RuneHLine, nil, style)
		screen.SetContent(x, y1, tcell.RuneHLine, nil, style)
	}
	for y := y0; y <= y1; y++ {
		screen.SetContent(x0, y, tcell.RuneVLine, nil, style)
		screen.SetContent(x1, y, tcell.RuneVLine, nil, style)
	}
	if x0 == x1 || y0 == y1 {
		return
	}
	screen.SetContent(x0, y0, tcell.RuneULCorner, nil, style)
	screen.SetContent(x1, y0, tcell.RuneURCorner, nil, style)
	screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, style)
	screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, style)
}

func drawCentered(screen tcell.Screen, text string, width, height int, style tcell.Style) {
	runes := []rune(text)
	x := max((width-len(runes))/2, 0)
	y := height / 2
	for i, r := range runes {
		if x+i >= width {
			break
		}
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// backgroundOf returns the style's background, black when it has no RGB value.
func backgroundOf(style tcell.Style) color.Color {
	_, bg, _ := style.Decompose()
	r, g, b := bg.RGB()
	if r < 0 {
		return color.Black
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
