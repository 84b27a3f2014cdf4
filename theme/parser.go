package theme

import (
	"strings"
)

// TemplateMetadata is read from the leading comment block of a stylesheet.
type TemplateMetadata struct {
	Template    string
	Display     string
	Description string
}

// TemplateInfo is a base stylesheet that consumes the --brand-* properties.
type TemplateInfo struct {
	Name        string
	Display     string
	Description string
	BaseCSS     string
}

// ParseTemplateMetadata parses "Key: value" lines from the first CSS comment.
func ParseTemplateMetadata(cssContent string) TemplateMetadata {
	var meta TemplateMetadata

	startIdx := strings.Index(cssContent, "/*")
	if startIdx == -1 {
		return meta
	}

	endIdx := strings.Index(cssContent[startIdx:], "*/")
	if endIdx == -1 {
		return meta
	}

	metadataBlock := cssContent[startIdx+2 : startIdx+endIdx]
	for _, line := range strings.Split(metadataBlock, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		switch {
		case strings.HasPrefix(line, "Template:"):
			meta.Template = strings.TrimSpace(strings.TrimPrefix(line, "Template:"))
		case strings.HasPrefix(line, "Display:"):
			meta.Display = strings.TrimSpace(strings.TrimPrefix(line, "Display:"))
		case strings.HasPrefix(line, "Description:"):
			meta.Description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		}
	}

	return meta
}

// ParseTemplate splits a stylesheet into its metadata and the CSS that
// follows the metadata comment. Files without a "Template:" comment are
// treated as pure CSS.
func ParseTemplate(cssContent string) (TemplateMetadata, string) {
	meta := ParseTemplateMetadata(cssContent)
	if meta.Template == "" {
		return meta, strings.TrimSpace(cssContent)
	}

	start := strings.Index(cssContent, "/*")
	end := strings.Index(cssContent[start:], "*/")
	return meta, strings.TrimSpace(cssContent[start+end+2:])
}

// displayName turns "dark-menu" into "Dark Menu".
func displayName(name string) string {
	parts := strings.Split(name, "-")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
