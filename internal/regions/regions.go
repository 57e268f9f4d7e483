// Package regions maps centroid coordinates to named rectangular
// regions loaded from a declarative JSON source.
//
// Regions are axis-aligned rectangles with half-open bounds: a point
// (px, py) is inside {x, y, width, height} iff x <= px < x+width and
// y <= py < y+height. When regions overlap, the first region in
// declaration order wins; classification walks the set in the order
// the declarations appeared in the source. This is documented behavior
// relied on by callers, not an accident of storage.
package regions

import (
	"fmt"
)

// Region is one named rectangle [X, X+Width) x [Y, Y+Height).
type Region struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Contains reports whether the point (px, py) falls inside the region.
// Bounds are half-open: the left and top edges are inside, the right
// and bottom edges are not.
func (r Region) Contains(px, py int) bool {
	return px >= r.X && px < r.X+r.Width && py >= r.Y && py < r.Y+r.Height
}

// Set is an ordered collection of uniquely named regions. The order is
// the declaration order of the source document and determines which
// region wins when rectangles overlap. A nil or empty Set classifies
// every point as unlabeled.
type Set struct {
	regions []Region
}

// NewSet builds a Set from regions in the given order. Duplicate or
// empty names are rejected.
func NewSet(regions []Region) (*Set, error) {
	seen := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		if r.Name == "" {
			return nil, fmt.Errorf("region with empty name")
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("duplicate region name %q", r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return &Set{regions: append([]Region(nil), regions...)}, nil
}

// Classify returns the name of the first region containing the point
// and true, or "" and false when no region contains it (or the set is
// empty). Absence of a label is a normal outcome, not an error.
func (s *Set) Classify(px, py int) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, r := range s.regions {
		if r.Contains(px, py) {
			return r.Name, true
		}
	}
	return "", false
}

// Len returns the number of regions in the set. A nil Set has length 0.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.regions)
}

// Regions returns the regions in declaration order.
func (s *Set) Regions() []Region {
	if s == nil {
		return nil
	}
	return append([]Region(nil), s.regions...)
}
