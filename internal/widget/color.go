package widget

import (
	"fmt"
	"math"
)

// MaxIntensity caps the opacity of any cell background.
const MaxIntensity = 0.8

// RGB is a base color without alpha.
type RGB struct {
	R, G, B uint8
}

var (
	// Positive marks values over-represented in the primary segment.
	Positive = RGB{R: 44, G: 160, B: 44}
	// Negative marks values under-represented in the primary segment.
	Negative = RGB{R: 214, G: 39, B: 40}
	// First and Second mark the two compared segments.
	First  = RGB{R: 31, G: 119, B: 180}
	Second = RGB{R: 255, G: 127, B: 14}
	// Neutral shades frequency tables.
	Neutral = RGB{R: 70, G: 130, B: 180}
)

// Scale returns c as an RGBA string with opacity clamped to [0, MaxIntensity].
func (c RGB) Scale(intensity float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, Clamp(intensity))
}

// Clamp limits intensity to [0, MaxIntensity]; NaN maps to 0.
func Clamp(intensity float64) float64 {
	if math.IsNaN(intensity) || intensity < 0 {
		return 0
	}
	return math.Min(MaxIntensity, intensity)
}

// ParseRGBA decodes a string produced by Scale.
func ParseRGBA(s string) (RGB, float64, bool) {
	var r, g, b int
	var a float64
	if _, err := fmt.Sscanf(s, "rgba(%d, %d, %d, %f)", &r, &g, &b, &a); err != nil {
		return RGB{}, 0, false
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, a, true
}
