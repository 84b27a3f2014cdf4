package theme

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultTemplate is served when no template is requested.
const DefaultTemplate = "menu"

// Manager holds the base stylesheets that brand themes are combined with.
type Manager struct {
	templatesMap  map[string]*TemplateInfo
	templatesList []string
	logger        zerolog.Logger
}

// NewManager loads every *.css file from the "templates" directory of templatesFS.
func NewManager(templatesFS fs.FS, logger zerolog.Logger) (*Manager, error) {
	m := &Manager{
		templatesMap:  make(map[string]*TemplateInfo),
		templatesList: []string{},
		logger:        logger,
	}

	if err := m.loadTemplates(templatesFS); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return m, nil
}

func (m *Manager) loadTemplates(templatesFS fs.FS) error {
	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return fmt.Errorf("read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".css") {
			continue
		}

		cssContent, err := fs.ReadFile(templatesFS, "templates/"+entry.Name())
		if err != nil {
			m.logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to read template")
			continue
		}

		meta, baseCSS := ParseTemplate(string(cssContent))
		if baseCSS == "" {
			m.logger.Warn().Str("file", entry.Name()).Msg("template has no CSS")
			continue
		}

		name := meta.Template
		if name == "" {
			name = strings.TrimSuffix(entry.Name(), ".css")
		}
		display := meta.Display
		if display == "" {
			display = displayName(name)
		}

		if _, exists := m.templatesMap[name]; !exists {
			m.templatesList = append(m.templatesList, name)
		}
		m.templatesMap[name] = &TemplateInfo{
			Name:        name,
			Display:     display,
			Description: meta.Description,
			BaseCSS:     baseCSS,
		}
	}

	m.templatesList = sortTemplates(m.templatesList)

	m.logger.Info().
		Int("count", len(m.templatesList)).
		Strs("templates", m.templatesList).
		Msg("loaded theme templates")

	return nil
}

// sortTemplates puts DefaultTemplate first and the rest alphabetically.
func sortTemplates(templates []string) []string {
	sorted := append([]string(nil), templates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i] == DefaultTemplate || sorted[j] == DefaultTemplate {
			return sorted[i] == DefaultTemplate && sorted[j] != DefaultTemplate
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// GetTemplate returns a template by name, or nil if not found.
func (m *Manager) GetTemplate(name string) *TemplateInfo {
	return m.templatesMap[name]
}

// ListTemplates returns all template names, default first.
func (m *Manager) ListTemplates() []string {
	return m.templatesList
}

// GetThemeCSS returns the brand properties for state followed by the base
// CSS of templateName. Unknown templates fall back to DefaultTemplate and,
// failing that, to the brand block alone.
func (m *Manager) GetThemeCSS(templateName string, state State) string {
	brand := RenderCSS(state)

	info, exists := m.templatesMap[templateName]
	if !exists {
		info, exists = m.templatesMap[DefaultTemplate]
	}
	if !exists {
		return brand
	}
	return brand + "\n" + info.BaseCSS
}
