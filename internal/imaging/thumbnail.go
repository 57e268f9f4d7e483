package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Thumbnail scales img down to fit within maxWidth x maxHeight while
// preserving its aspect ratio. Images already inside the box are
// returned unscaled (as a copy).
func Thumbnail(img image.Image, maxWidth, maxHeight int) image.Image {
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

// SaveThumbnail writes a fitted thumbnail of img to path. The output
// format is derived from the file extension (.png, .jpg, .gif).
func SaveThumbnail(img image.Image, maxWidth, maxHeight int, path string) error {
	thumb := Thumbnail(img, maxWidth, maxHeight)
	if err := imaging.Save(thumb, path); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}
