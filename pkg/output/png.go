package output

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

const captionPadding = 4.0

// SavePNG writes img to path as a PNG. A non-empty caption is drawn on a dark band
// along the bottom edge.
func SavePNG(path string, img image.Image, caption string) error {
	if caption == "" {
		if err := gg.SavePNG(path, img); err != nil {
			return fmt.Errorf("save png %s: %w", path, err)
		}
		return nil
	}

	dc := Annotate(img, caption)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

// Annotate copies img onto a drawing context and overlays caption in the bottom-left corner
func Annotate(img image.Image, caption string) *gg.Context {
	dc := gg.NewContextForImage(img)
	width, height := float64(dc.Width()), float64(dc.Height())

	_, textHeight := dc.MeasureString(caption)
	bandHeight := textHeight + 2*captionPadding

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, height-bandHeight, width, bandHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(caption, captionPadding, height-bandHeight/2, 0, 0.5)
	return dc
}
