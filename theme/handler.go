package theme

import (
	"encoding/json"
	"html"
	"net/http"
	"strings"

	"menutheme/colormath"
)

// Handler serves stateless theme derivations over HTTP.
type Handler struct {
	manager *Manager
}

// NewHandler creates a new theme handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

// Manager returns the stylesheet manager behind the handler.
func (h *Handler) Manager() *Manager {
	return h.manager
}

// colorParam reads ?color=, accepting the hex digits with or without '#'.
// A missing color yields the default.
func colorParam(r *http.Request) string {
	c := strings.TrimSpace(r.URL.Query().Get("color"))
	if c == "" {
		return colormath.DefaultColor
	}
	if !strings.HasPrefix(c, "#") && colormath.IsHex("#"+c) {
		return "#" + c
	}
	return c
}

func (h *Handler) templateParam(r *http.Request) string {
	if t := r.URL.Query().Get("template"); t != "" && h.manager.GetTemplate(t) != nil {
		return t
	}
	return DefaultTemplate
}

// HandleTheme serves the brand properties for ?color= combined with ?template=.
func (h *Handler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	h.WriteCSS(w, h.templateParam(r), Derive(colorParam(r)))
}

// WriteCSS writes the stylesheet for state.
func (h *Handler) WriteCSS(w http.ResponseWriter, templateName string, state State) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(h.manager.GetThemeCSS(templateName, state)))
}

// PaletteResponse describes a derived theme.
type PaletteResponse struct {
	BaseColor  string             `json:"baseColor"`
	Foreground string             `json:"foreground"`
	Scale      map[string]string  `json:"scale"`
	Contrast   map[string]float64 `json:"contrast"`
	Properties []Property         `json:"properties"`
}

// NewPaletteResponse builds the JSON view of state.
func NewPaletteResponse(state State) PaletteResponse {
	return PaletteResponse{
		BaseColor:  state.BaseColor,
		Foreground: state.Foreground,
		Scale:      state.Scale.Map(),
		Contrast: map[string]float64{
			colormath.White: colormath.ContrastRatio(state.BaseColor, colormath.White),
			colormath.Black: colormath.ContrastRatio(state.BaseColor, colormath.Black),
		},
		Properties: state.Properties(),
	}
}

// HandlePalette returns the derived scale for ?color= as JSON.
func (h *Handler) HandlePalette(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := json.NewEncoder(w).Encode(NewPaletteResponse(Derive(colorParam(r)))); err != nil {
		http.Error(w, "failed to encode palette", http.StatusInternalServerError)
		return
	}
}

// HandleTemplates lists the available base stylesheets.
func (h *Handler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	type templateResponse struct {
		Name        string `json:"name"`
		Display     string `json:"display"`
		Description string `json:"description,omitempty"`
	}

	names := h.manager.ListTemplates()
	resp := make([]templateResponse, 0, len(names))
	for _, name := range names {
		info := h.manager.GetTemplate(name)
		resp = append(resp, templateResponse{
			Name:        info.Name,
			Display:     info.Display,
			Description: info.Description,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode templates", http.StatusInternalServerError)
		return
	}
}

// GenerateTemplateMenuHTML generates HTML for the template selection menu.
func (h *Handler) GenerateTemplateMenuHTML(currentTemplate string) string {
	var builder strings.Builder
	for _, name := range h.manager.ListTemplates() {
		info := h.manager.GetTemplate(name)
		builder.WriteString(`<button data-template="`)
		builder.WriteString(html.EscapeString(name))
		builder.WriteString(`"`)
		if name == currentTemplate {
			builder.WriteString(` class="active"`)
		}
		builder.WriteString(`>`)
		builder.WriteString(html.EscapeString(info.Display))
		builder.WriteString(`</button>`)
	}
	return builder.String()
}

// GenerateSwatchHTML renders one swatch per scale step. Swatches reference
// the live custom properties so they follow theme changes without a reload.
func GenerateSwatchHTML() string {
	var builder strings.Builder
	for _, step := range colormath.Steps {
		name := PropertyPrefix + step.String()
		builder.WriteString(`<span class="swatch" data-step="`)
		builder.WriteString(step.String())
		builder.WriteString(`" style="background:var(`)
		builder.WriteString(name)
		builder.WriteString(`)">`)
		builder.WriteString(step.String())
		builder.WriteString(`</span>`)
	}
	return builder.String()
}
