package imaging

import (
	"errors"
	"testing"
)

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want error
	}{
		{"ok", Grid{{0, 1}, {1, 0}}, nil},
		{"single cell", Grid{{1}}, nil},
		{"no rows", Grid{}, ErrEmptyGrid},
		{"nil grid", nil, ErrEmptyGrid},
		{"zero width", Grid{{}, {}}, ErrEmptyGrid},
		{"nil first row", Grid{nil, {1}}, ErrNilRow},
		{"nil later row", Grid{{1, 0}, nil}, ErrNilRow},
		{"ragged", Grid{{1, 0}, {1, 0, 0}}, ErrRaggedGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGridDimensions(t *testing.T) {
	g := Grid{{0, 1, 0}, {1, 0, 1}}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Errorf("got %dx%d, want 2x3", g.Rows(), g.Cols())
	}

	var empty Grid
	if empty.Rows() != 0 || empty.Cols() != 0 {
		t.Errorf("empty grid reported %dx%d", empty.Rows(), empty.Cols())
	}
}
