package colormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePaletteBaseIsIdentity(t *testing.T) {
	for _, base := range sampleColors() {
		scale := GeneratePalette(base)
		assert.Equal(t, base, scale.At(500), "step 500 of %s", base)
	}
}

func TestGeneratePaletteStepsAreValidHex(t *testing.T) {
	for _, base := range sampleColors() {
		scale := GeneratePalette(base)
		for i, hex := range scale {
			assert.True(t, IsHex(hex), "step %s of %s is %q", Steps[i], base, hex)
		}
	}
}

func TestGeneratePaletteLightnessNonIncreasing(t *testing.T) {
	for _, base := range sampleColors() {
		scale := GeneratePalette(base)
		prev := 2.0
		for i, hex := range scale {
			l := HexToHSL(hex).L
			require.LessOrEqual(t, l, prev+1e-9, "step %s of %s (%s) is lighter than the step before it", Steps[i], base, hex)
			prev = l
		}
	}
}

func TestGeneratePaletteEndpoints(t *testing.T) {
	scale := GeneratePalette("#3366ff")
	assert.Greater(t, HexToHSL(scale.At(50)).L, HexToHSL(scale.At(500)).L)
	assert.Less(t, HexToHSL(scale.At(900)).L, HexToHSL(scale.At(500)).L)

	white := GeneratePalette("#ffffff")
	for _, step := range []Step{50, 100, 200, 300, 400} {
		assert.Equal(t, "#ffffff", white.At(step))
	}
	black := GeneratePalette("#000000")
	for _, step := range []Step{600, 700, 800, 900} {
		assert.Equal(t, "#000000", black.At(step))
	}
}

func TestGeneratePaletteInvalidFallsBackToDefault(t *testing.T) {
	want := GeneratePalette(DefaultColor)
	for _, in := range []string{"not-a-color", "", "#12345", "123456", "#zzzzzz"} {
		assert.Equal(t, want, GeneratePalette(in), in)
	}
}

func TestGeneratePaletteIsDeterministic(t *testing.T) {
	assert.Equal(t, GeneratePalette("#2e7d32"), GeneratePalette("#2e7d32"))
}

func TestScaleAccessors(t *testing.T) {
	scale := GeneratePalette(DefaultColor)
	m := scale.Map()
	require.Len(t, m, len(Steps))
	assert.Equal(t, DefaultColor, m["500"])
	assert.Equal(t, scale.At(900), m["900"])
	assert.Equal(t, "", scale.At(550))
}
