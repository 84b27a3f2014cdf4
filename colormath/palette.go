package colormath

import "strconv"

// Step is one key of a brand scale.
type Step int

// Steps lists the scale keys from lightest to darkest.
var Steps = [...]Step{50, 100, 200, 300, 400, 500, 600, 700, 800, 900}

// String returns the numeric key, e.g. "500".
func (s Step) String() string {
	return strconv.Itoa(int(s))
}

// Scale maps each of Steps, in order, to a #rrggbb color.
type Scale [len(Steps)]string

// At returns the color for step, or "" when step is not one of Steps.
func (s Scale) At(step Step) string {
	for i, st := range Steps {
		if st == step {
			return s[i]
		}
	}
	return ""
}

// Map returns the scale keyed by step name.
func (s Scale) Map() map[string]string {
	out := make(map[string]string, len(Steps))
	for i, st := range Steps {
		out[st.String()] = s[i]
	}
	return out
}

// offsets are applied to the base color's lightness and saturation per step.
// They grow monotonically away from 500; step 500 itself is never derived.
var offsets = [len(Steps)]struct {
	light float64
	sat   float64
}{
	{+0.42, -0.30},
	{+0.35, -0.24},
	{+0.26, -0.18},
	{+0.17, -0.12},
	{+0.08, -0.06},
	{0, 0},
	{-0.08, +0.05},
	{-0.16, +0.10},
	{-0.24, +0.15},
	{-0.32, +0.20},
}

const baseIndex = 5

// GeneratePalette derives the 10-step scale for base. Invalid input is
// replaced by DefaultColor with a logged warning. Step 500 is base itself.
func GeneratePalette(base string) Scale {
	base = Normalize(base)
	hsl := HexToHSL(base)

	var scale Scale
	for i, off := range offsets {
		if i == baseIndex {
			scale[i] = base
			continue
		}
		scale[i] = HSLToHex(hsl.H, hsl.S+off.sat, hsl.L+off.light)
	}
	return scale
}
