package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// distanceScale maps go-colorful's unit-interval RGB distance back to
// 8-bit channel units so it can be compared against a 0-255 threshold.
const distanceScale = 255.0

// BinarizeOptions tunes frame preprocessing before classification.
type BinarizeOptions struct {
	// BlurRadius, when positive, applies a Gaussian blur of that radius
	// to the frame before pixels are classified. Smoothing suppresses
	// single-pixel noise that would otherwise appear as tiny groups.
	BlurRadius float64
}

// Binarize classifies every pixel of img against a target color and
// returns a Grid of equal dimensions where a cell is 1 iff the pixel's
// Euclidean RGB distance to target is at or below threshold.
//
// Parameters:
//   - img: Source frame. Any image.Image implementation.
//   - target: Target color to match, as parsed by ParseHexColor.
//   - threshold: Maximum color distance, in 8-bit channel units (0-255).
//     The caller is expected to have validated the range at the job
//     submission boundary.
//
// The returned grid is indexed grid[y][x] relative to the image bounds,
// so grid[0][0] corresponds to the top-left pixel regardless of the
// image's Min point.
func Binarize(img image.Image, target colorful.Color, threshold int) Grid {
	return BinarizeWithOptions(img, target, threshold, BinarizeOptions{})
}

// BinarizeWithOptions is Binarize with explicit preprocessing options.
func BinarizeWithOptions(img image.Image, target colorful.Color, threshold int, opts BinarizeOptions) Grid {
	if opts.BlurRadius > 0 {
		img = blur.Gaussian(img, opts.BlurRadius)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	limit := float64(threshold)

	grid := make(Grid, height)
	for y := 0; y < height; y++ {
		row := make([]int, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixel := colorful.Color{
				R: float64(r>>8) / 255.0,
				G: float64(g>>8) / 255.0,
				B: float64(b>>8) / 255.0,
			}
			if pixel.DistanceRgb(target)*distanceScale <= limit {
				row[x] = 1
			}
		}
		grid[y] = row
	}

	return grid
}
