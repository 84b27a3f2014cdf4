// Package colormath derives brand color scales and accessible foreground
// colors from a single accent color. Every function is pure.
package colormath

import (
	"math"
	"regexp"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"
)

// DefaultColor is the accent used whenever a tenant has no usable brand color.
const DefaultColor = "#ee6620"

const (
	White = "#ffffff"
	Black = "#000000"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// HSL is a color in hue/saturation/lightness space.
// H is in degrees [0,360), S and L are in [0,1].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// Hex encodes the color back to #rrggbb.
func (c HSL) Hex() string {
	return HSLToHex(c.H, c.S, c.L)
}

// IsHex reports whether s is a 6-digit hex color prefixed with '#'.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}

// Normalize returns s unchanged when it is a valid hex color and
// DefaultColor otherwise, logging a warning in the latter case.
func Normalize(s string) string {
	if IsHex(s) {
		return s
	}
	log.Warn().Str("color", s).Str("fallback", DefaultColor).Msg("invalid brand color, using default")
	return DefaultColor
}

// HexToHSL converts a #rrggbb color to HSL. The result for input that
// fails IsHex is the zero value.
func HexToHSL(hex string) HSL {
	c, err := colorful.Hex(hex)
	if err != nil {
		return HSL{}
	}
	h, s, l := c.Hsl()
	return HSL{H: h, S: s, L: l}
}

// HSLToHex converts HSL components to a lowercase #rrggbb string.
// s and l are clamped into [0,1] and h is taken modulo 360.
func HSLToHex(h, s, l float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped().Hex()
}

// Luminance returns the WCAG relative luminance of a #rrggbb color.
func Luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between two colors, in [1,21].
func ContrastRatio(a, b string) float64 {
	la, lb := Luminance(a), Luminance(b)
	lighter, darker := math.Max(la, lb), math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05)
}

// BestForeground picks white or black text for the given background,
// whichever contrasts more. Equal ratios resolve to white.
func BestForeground(bg string) string {
	if ContrastRatio(bg, White) >= ContrastRatio(bg, Black) {
		return White
	}
	return Black
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
