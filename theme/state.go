// Package theme holds the live brand theme of one rendering surface and
// publishes it as CSS custom properties.
package theme

import (
	"strings"

	"menutheme/colormath"
)

// Property names written to the rendering surface.
const (
	PropertyPrefix = "--brand-"
	TextProperty   = PropertyPrefix + "text"
)

// State is the derived theme for one base color.
type State struct {
	BaseColor   string          `json:"baseColor"`
	Scale       colormath.Scale `json:"-"`
	Foreground  string          `json:"foreground"`
	Initialized bool            `json:"initialized"`
}

// Property is a single CSS custom property.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Derive computes the theme for color without touching any surface.
// Invalid colors derive the default theme. The result is not initialized.
func Derive(color string) State {
	base := colormath.Normalize(color)
	return State{
		BaseColor:  base,
		Scale:      colormath.GeneratePalette(base),
		Foreground: colormath.BestForeground(base),
	}
}

// Properties lists the scale steps in order followed by the text color.
func (s State) Properties() []Property {
	props := make([]Property, 0, len(colormath.Steps)+1)
	for i, step := range colormath.Steps {
		props = append(props, Property{Name: PropertyPrefix + step.String(), Value: s.Scale[i]})
	}
	return append(props, Property{Name: TextProperty, Value: s.Foreground})
}

// RenderCSS renders the state as a :root rule.
func RenderCSS(s State) string {
	var b strings.Builder
	b.WriteString(":root{")
	for _, p := range s.Properties() {
		b.WriteString(p.Name)
		b.WriteString(":")
		b.WriteString(p.Value)
		b.WriteString(";")
	}
	b.WriteString("}")
	return b.String()
}
