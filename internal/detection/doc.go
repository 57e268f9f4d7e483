// Package detection finds connected foreground groups in binary pixel
// grids and reduces each to its size and centroid.
//
// # Connectivity
//
// Cells are connected vertically and horizontally only (4-connectivity);
// diagonal adjacency does not join groups.
//
// # Coordinate System
//
// The top-left cell of the grid (row 0, column 0) is coordinate
// (x:0, y:0). X increases to the right (column index) and Y increases
// downward (row index), so (row:4, column:7) is the point (x:7, y:4).
//
// # Ordering
//
// FindGroups returns groups in strictly descending order: by size
// first, ties broken by descending centroid Y, then descending
// centroid X. The ordering is total over the reported fields, so
// repeated runs over the same grid always produce the same sequence.
package detection
