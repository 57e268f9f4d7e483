// Package imaging provides the per-frame raster operations of the
// tracking pipeline: binary pixel grids, color-distance binarization,
// target-color parsing, image loading, and thumbnail extraction.
//
// All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// A Grid mirrors the source raster: grid[y][x] addresses the pixel at
// column x of row y.
//
// # Color Distance
//
// Binarization classifies pixels by Euclidean distance in RGB space,
// sqrt(dr² + dg² + db²) over the three 8-bit channels, so a threshold
// of 0 matches only the exact target color and larger thresholds admit
// progressively looser matches. The maximum possible distance (black to
// white) is ~441.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Grids with no rows, nil rows, or unequal row lengths
//   - Malformed hex color strings
//   - File I/O or decode errors during image loading
package imaging
