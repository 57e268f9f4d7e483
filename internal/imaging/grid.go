package imaging

import (
	"errors"
	"fmt"
)

// Grid is a binary pixel grid. Each cell holds 0 (background) or 1
// (foreground). The grid is indexed grid[y][x] with the origin at the
// top-left cell.
//
// A well-formed Grid is non-empty and rectangular: at least one row,
// at least one column, no nil rows, and every row the same length.
// Validate reports which of these invariants a malformed grid breaks.
type Grid [][]int

// Grid shape errors. Each malformed-shape condition is distinguishable
// so callers can report the exact cause to the submitting layer.
var (
	ErrEmptyGrid  = errors.New("grid is empty")
	ErrNilRow     = errors.New("grid row is nil")
	ErrRaggedGrid = errors.New("grid rows have unequal lengths")
)

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns in the grid, 0 if the grid has
// no rows.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Validate checks that the grid is non-empty and rectangular.
//
// Returns:
//   - ErrEmptyGrid if the grid has no rows or no columns
//   - ErrNilRow (wrapped with the row index) if any row is absent
//   - ErrRaggedGrid (wrapped with the row index and lengths) if rows
//     have unequal lengths
//
// Cell values are not inspected; Binarize only ever produces 0 and 1.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return ErrEmptyGrid
	}
	if g[0] == nil {
		return fmt.Errorf("row 0: %w", ErrNilRow)
	}
	width := len(g[0])
	if width == 0 {
		return ErrEmptyGrid
	}
	for i, row := range g {
		if row == nil {
			return fmt.Errorf("row %d: %w", i, ErrNilRow)
		}
		if len(row) != width {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), width, ErrRaggedGrid)
		}
	}
	return nil
}
