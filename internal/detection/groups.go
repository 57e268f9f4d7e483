package detection

import (
	"fmt"
	"sort"

	"github.com/jameson789/colortrack/internal/imaging"
)

// Group is a maximal 4-connected component of foreground cells reduced
// to its pixel count and centroid.
//
// The centroid is the average of the member pixel coordinates per axis,
// computed with truncating integer division. A single-pixel group's
// centroid is that pixel's coordinate. Centroids always fall inside the
// grid bounds: 0 <= X < cols and 0 <= Y < rows.
type Group struct {
	Size int `json:"size"` // Number of pixels in the group (> 0)
	X    int `json:"x"`    // Centroid X (column) coordinate
	Y    int `json:"y"`    // Centroid Y (row) coordinate
}

// point is a stack frame for the iterative grid walk.
type point struct {
	x, y int
}

// FindGroups finds all maximal 4-connected groups of 1-cells in a
// binary grid.
//
// Parameters:
//   - grid: A non-empty rectangular grid of 0s and 1s. The grid is
//     consumed: visited cells are zeroed so no pixel is counted twice.
//     Callers that need the grid afterwards must copy it first.
//
// Returns:
//   - []Group: Groups sorted descending by size, ties broken by
//     descending centroid Y, then descending centroid X. A grid with no
//     1-cells yields an empty (non-nil) slice.
//   - error: imaging.ErrEmptyGrid, imaging.ErrNilRow, or
//     imaging.ErrRaggedGrid when the grid shape is invalid. Shape is
//     checked in full before any traversal begins.
//
// # Algorithm
//
// Every cell is visited once. On encountering an unvisited 1, a
// flood fill with an explicit stack collects the whole component,
// accumulating the coordinate sums and pixel count that yield the
// centroid. The walk is iterative rather than recursive: a component
// can span millions of cells, which would overflow the call stack in a
// naive depth-first implementation.
//
// Time and space are O(rows x cols); sorting adds O(g log g) for g
// groups.
func FindGroups(grid imaging.Grid) ([]Group, error) {
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}

	rows := grid.Rows()
	cols := grid.Cols()

	groups := make([]Group, 0)
	stack := make([]point, 0, 64)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if grid[row][col] != 1 {
				continue
			}

			// Collect the component rooted here.
			var size, sumX, sumY int
			stack = append(stack[:0], point{x: col, y: row})
			grid[row][col] = 0 // consumed

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				size++
				sumX += p.x
				sumY += p.y

				// 4-connected neighbors, marked consumed as they are
				// pushed so no cell enters the stack twice.
				if p.y+1 < rows && grid[p.y+1][p.x] == 1 {
					grid[p.y+1][p.x] = 0
					stack = append(stack, point{x: p.x, y: p.y + 1})
				}
				if p.y-1 >= 0 && grid[p.y-1][p.x] == 1 {
					grid[p.y-1][p.x] = 0
					stack = append(stack, point{x: p.x, y: p.y - 1})
				}
				if p.x+1 < cols && grid[p.y][p.x+1] == 1 {
					grid[p.y][p.x+1] = 0
					stack = append(stack, point{x: p.x + 1, y: p.y})
				}
				if p.x-1 >= 0 && grid[p.y][p.x-1] == 1 {
					grid[p.y][p.x-1] = 0
					stack = append(stack, point{x: p.x - 1, y: p.y})
				}
			}

			groups = append(groups, Group{
				Size: size,
				X:    sumX / size,
				Y:    sumY / size,
			})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		return a.X > b.X
	})

	return groups, nil
}

// Largest returns the biggest group of a sorted FindGroups result and
// whether one exists. It is the per-frame selection rule of the
// pipeline: only the largest group contributes a centroid.
func Largest(groups []Group) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	return groups[0], true
}
