package colormath

import (
	"fmt"
	"math/rand"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleColors returns a deterministic spread of valid hex colors,
// including the extremes of the RGB cube.
func sampleColors() []string {
	out := []string{"#000000", "#ffffff", "#FF0000", "#00ff00", "#0000FF", "#808080", "#fffffe", "#010101", DefaultColor, "#2e7d32", "#3366ff"}
	for r := 0; r <= 255; r += 51 {
		for g := 0; g <= 255; g += 51 {
			for b := 0; b <= 255; b += 85 {
				out = append(out, fmt.Sprintf("#%02x%02x%02x", r, g, b))
			}
		}
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		out = append(out, fmt.Sprintf("#%06X", rng.Intn(0x1000000)))
	}
	return out
}

func rgb255(t *testing.T, hex string) (uint8, uint8, uint8) {
	t.Helper()
	c, err := colorful.Hex(hex)
	require.NoError(t, err, hex)
	return c.RGB255()
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestIsHex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#ee6620", true},
		{"#EE6620", true},
		{"#aBc123", true},
		{"ee6620", false},
		{"#ee662", false},
		{"#ee66200", false},
		{"#gg6620", false},
		{"#fff", false},
		{"", false},
		{"not-a-color", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHex(tt.in))
		})
	}
}

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		hex  string
		want HSL
	}{
		{"#ff0000", HSL{H: 0, S: 1, L: 0.5}},
		{"#00ff00", HSL{H: 120, S: 1, L: 0.5}},
		{"#0000ff", HSL{H: 240, S: 1, L: 0.5}},
		{"#ffffff", HSL{H: 0, S: 0, L: 1}},
		{"#000000", HSL{H: 0, S: 0, L: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got := HexToHSL(tt.hex)
			assert.InDelta(t, tt.want.H, got.H, 1e-9)
			assert.InDelta(t, tt.want.S, got.S, 1e-9)
			assert.InDelta(t, tt.want.L, got.L, 1e-9)
		})
	}
}

func TestHSLToHexClampsAndWraps(t *testing.T) {
	assert.Equal(t, "#ffffff", HSLToHex(0, 0.5, 1.3))
	assert.Equal(t, "#000000", HSLToHex(200, 0.5, -0.2))
	assert.Equal(t, HSLToHex(120, 1, 0.5), HSLToHex(480, 1, 0.5))
	assert.Equal(t, HSLToHex(300, 1, 0.5), HSLToHex(-60, 1, 0.5))
	assert.Equal(t, HSLToHex(10, 1, 0.5), HSLToHex(10, 1.7, 0.5))
	assert.Equal(t, "#808080", HSLToHex(10, -0.4, 0.5019607843137255))
}

func TestHexHSLRoundTrip(t *testing.T) {
	for _, hex := range sampleColors() {
		got := HexToHSL(hex).Hex()
		require.True(t, IsHex(got), "round trip of %s produced %q", hex, got)

		r1, g1, b1 := rgb255(t, hex)
		r2, g2, b2 := rgb255(t, got)
		assert.LessOrEqual(t, absDiff(r1, r2), 1, "red channel of %s -> %s", hex, got)
		assert.LessOrEqual(t, absDiff(g1, g2), 1, "green channel of %s -> %s", hex, got)
		assert.LessOrEqual(t, absDiff(b1, b2), 1, "blue channel of %s -> %s", hex, got)
	}
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 0.0, Luminance("#000000"), 1e-12)
	assert.InDelta(t, 1.0, Luminance("#ffffff"), 1e-12)
	assert.InDelta(t, 0.2126, Luminance("#ff0000"), 1e-12)
	assert.InDelta(t, 0.7152, Luminance("#00ff00"), 1e-12)
	assert.InDelta(t, 0.0722, Luminance("#0000ff"), 1e-12)
	// 0x0a/255 sits below the linear threshold.
	assert.InDelta(t, (10.0/255.0)/12.92, Luminance("#0a0a0a"), 1e-12)
}

func TestContrastRatio(t *testing.T) {
	assert.InDelta(t, 21.0, ContrastRatio("#000000", "#ffffff"), 1e-9)

	colors := sampleColors()
	for i, a := range colors {
		assert.Equal(t, 1.0, ContrastRatio(a, a), a)

		b := colors[(i*7+3)%len(colors)]
		assert.Equal(t, ContrastRatio(a, b), ContrastRatio(b, a), "%s vs %s", a, b)
		assert.GreaterOrEqual(t, ContrastRatio(a, b), 1.0)
		assert.LessOrEqual(t, ContrastRatio(a, b), 21.0+1e-9)
	}
}

func TestBestForeground(t *testing.T) {
	assert.Equal(t, White, BestForeground("#000000"))
	assert.Equal(t, Black, BestForeground("#ffffff"))
	assert.Equal(t, White, BestForeground("#2e7d32"))
	assert.Equal(t, Black, BestForeground(DefaultColor))
	assert.Equal(t, Black, BestForeground("#ffeb3b"))
	assert.Equal(t, White, BestForeground("#1a237e"))
}

func TestBestForegroundTieGoesToWhite(t *testing.T) {
	// Against white the ratio is 1.05/(L+0.05), against black (L+0.05)/0.05.
	// They are equal exactly when L+0.05 = sqrt(0.0525). No 8-bit gray hits
	// that luminance, so check the decision rule on both sides of it.
	for _, hex := range sampleColors() {
		toWhite := ContrastRatio(hex, White)
		toBlack := ContrastRatio(hex, Black)
		if toWhite >= toBlack {
			assert.Equal(t, White, BestForeground(hex), hex)
		} else {
			assert.Equal(t, Black, BestForeground(hex), hex)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "#ABCDEF", Normalize("#ABCDEF"))
	assert.Equal(t, DefaultColor, Normalize("not-a-color"))
	assert.Equal(t, DefaultColor, Normalize(""))
}
