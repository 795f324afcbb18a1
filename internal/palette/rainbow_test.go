package palette

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRainbow(t *testing.T) {
	tests := []struct {
		name    string
		scalar  float64
		r, g, b float64
	}{
		{"start is red", 0.0, 1, 0, 0},
		{"end wraps to red", 1.0, 1, 0, 0},
		{"yellow", 1.0 / 6, 1, 1, 0},
		{"green", 2.0 / 6, 0, 1, 0},
		{"cyan", 0.5, 0, 1, 1},
		{"blue", 4.0 / 6, 0, 0, 1},
		{"magenta", 5.0 / 6, 1, 0, 1},
		{"below range clamps", -3, 1, 0, 0},
		{"above range clamps", 7, 1, 0, 0},
		{"NaN maps to the start", math.NaN(), 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Rainbow(tt.scalar)
			if !near(c.R, tt.r) || !near(c.G, tt.g) || !near(c.B, tt.b) {
				t.Errorf("Rainbow(%v) = (%v, %v, %v), want (%v, %v, %v)",
					tt.scalar, c.R, c.G, c.B, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRainbow_ChannelsInUnitRange(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		c := Rainbow(float64(i) / 1000)
		for _, ch := range []float64{c.R, c.G, c.B} {
			if ch < 0 || ch > 1 {
				t.Fatalf("Rainbow(%v) channel out of range: %v", float64(i)/1000, c)
			}
		}
		if !c.IsValid() {
			t.Fatalf("Rainbow(%v) not a valid color", float64(i)/1000)
		}
	}
	if c := Rainbow(math.NaN()); !c.IsValid() {
		t.Errorf("Rainbow(NaN) not a valid color: %v", c)
	}
}

func TestRainbow_Hex(t *testing.T) {
	if got := Rainbow(0).Hex(); got != "#ff0000" {
		t.Errorf("Rainbow(0).Hex() = %s, want #ff0000", got)
	}
}
