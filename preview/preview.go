// Package preview renders a brand scale as terminal swatches.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"menutheme/colormath"
	"menutheme/theme"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Width(6).Align(lipgloss.Right).MarginRight(1)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// Render draws one row per scale step, each swatch labelled in the text
// color that contrasts best with it, followed by the base color's
// foreground and contrast ratios.
func Render(state theme.State) string {
	rows := make([]string, 0, len(colormath.Steps)+4)
	rows = append(rows, titleStyle.Render("Brand scale for "+state.BaseColor))

	for i, step := range colormath.Steps {
		hex := state.Scale[i]
		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color(hex)).
			Foreground(lipgloss.Color(colormath.BestForeground(hex))).
			Padding(0, 2).
			Render(hex)

		label := labelStyle.Render(step.String())
		if step == 500 {
			label = labelStyle.Copy().Bold(true).Render(step.String())
		}
		rows = append(rows, label+swatch)
	}

	rows = append(rows,
		"",
		fmt.Sprintf("%s %s", mutedStyle.Render("text on 500:"), state.Foreground),
		fmt.Sprintf("%s %.2f:1 white, %.2f:1 black",
			mutedStyle.Render("contrast:"),
			colormath.ContrastRatio(state.BaseColor, colormath.White),
			colormath.ContrastRatio(state.BaseColor, colormath.Black)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Plain renders the scale as "step hex" lines without styling.
func Plain(state theme.State) string {
	var b strings.Builder
	for _, p := range state.Properties() {
		fmt.Fprintf(&b, "%s: %s;\n", p.Name, p.Value)
	}
	return b.String()
}
