package canvas

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/flashingpumpkin/markbar/internal/markbar"
)

// Image is an RGBA raster surface.
type Image struct {
	img *image.RGBA
}

// NewImage creates a transparent image of the given pixel size.
func NewImage(width, height int) *Image {
	return &Image{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// Bounds returns the track bounds covering the whole image.
func (i *Image) Bounds() markbar.Bounds {
	b := i.img.Bounds()
	return markbar.Bounds{Left: b.Min.X, Top: b.Min.Y, Right: b.Max.X, Bottom: b.Max.Y}
}

// Draw composites the command's colour over its rectangle, rounded to whole pixels.
func (i *Image) Draw(cmd markbar.DrawCommand) {
	if cmd.Color.A == 0 {
		return
	}
	r := image.Rect(
		int(math.Round(cmd.Rect.Left)),
		int(math.Round(cmd.Rect.Top)),
		int(math.Round(cmd.Rect.Right)),
		int(math.Round(cmd.Rect.Bottom)),
	).Intersect(i.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(i.img, r, image.NewUniform(cmd.Color), image.Point{}, draw.Over)
}

// RGBA returns the underlying image.
func (i *Image) RGBA() *image.RGBA {
	return i.img
}

// WritePNG encodes the image as PNG.
func (i *Image) WritePNG(w io.Writer) error {
	if err := png.Encode(w, i.img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
