package regions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMalformed indicates the region declarations could not be parsed.
// The whole set is rejected on the first malformed entry; there is no
// partial load. Callers may treat this as recoverable by proceeding
// without region classification, but that choice must be surfaced (a
// warning at minimum), never silent.
var ErrMalformed = errors.New("malformed region declarations")

// rawRegion captures one declaration value with pointer fields so that
// missing keys are distinguishable from zero values.
type rawRegion struct {
	X      *int `json:"x"`
	Y      *int `json:"y"`
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

// ParseJSON reads region declarations from a JSON object of the form
//
//	{ "name": {"x": 0, "y": 0, "width": 100, "height": 50}, ... }
//
// Declaration order is preserved, which is what makes first-declared-
// wins classification meaningful; the document is walked token by
// token rather than decoded into a map.
//
// All four fields of every region are required and must be JSON
// integers. Any missing or non-integer field rejects the entire set
// with an error wrapping ErrMalformed that names the region and field.
func ParseJSON(r io.Reader) (*Set, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrMalformed)
	}

	var regs []Region
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key token %v", ErrMalformed, keyTok)
		}

		var raw rawRegion
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: region %q: %v", ErrMalformed, name, err)
		}

		reg, err := raw.toRegion(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		regs = append(regs, reg)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	set, err := NewSet(regs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return set, nil
}

// LoadFile reads region declarations from a JSON file.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open regions file: %w", err)
	}
	defer f.Close()
	return ParseJSON(f)
}

func (r rawRegion) toRegion(name string) (Region, error) {
	fields := []struct {
		key string
		val *int
	}{
		{"x", r.X},
		{"y", r.Y},
		{"width", r.Width},
		{"height", r.Height},
	}
	for _, f := range fields {
		if f.val == nil {
			return Region{}, fmt.Errorf("region %q: missing or non-numeric field %q", name, f.key)
		}
	}
	return Region{
		Name:   name,
		X:      *r.X,
		Y:      *r.Y,
		Width:  *r.Width,
		Height: *r.Height,
	}, nil
}
