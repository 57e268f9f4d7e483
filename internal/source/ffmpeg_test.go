package source

import (
	"math"
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "integer fraction", input: "30/1", want: 30},
		{name: "ntsc", input: "30000/1001", want: 30000.0 / 1001.0},
		{name: "plain number", input: "25", want: 25},
		{name: "decimal", input: "23.976", want: 23.976},
		{name: "zero denominator", input: "30/0", wantErr: true},
		{name: "zero rate", input: "0/1", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "garbage fraction", input: "a/b", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFrameRate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseFrameRate(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFrameRate(%q) failed: %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("parseFrameRate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
