package imaging

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses a 6-hex-digit RGB color string into a color
// suitable for Binarize.
//
// Accepted forms are "RRGGBB" and "#RRGGBB", case-insensitive. Short
// (3-digit) and 8-digit (alpha) forms are rejected: the job submission
// contract specifies exactly one byte per channel.
func ParseHexColor(s string) (colorful.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return colorful.Color{}, fmt.Errorf("target color %q: want 6 hex digits, got %d", s, len(hex))
	}
	for _, r := range hex {
		if !isHexDigit(r) {
			return colorful.Color{}, fmt.Errorf("target color %q: invalid hex digit %q", s, r)
		}
	}

	c, err := colorful.Hex("#" + strings.ToLower(hex))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("target color %q: %w", s, err)
	}
	return c, nil
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}
