package model

import (
	"time"
)

// Location is a tenant record as delivered by the menu API. The theme
// engine only reads BrandColor.
type Location struct {
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	BrandColor *string   `json:"brandColor,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Color returns the brand color, or "" when none is set.
func (l *Location) Color() string {
	if l == nil || l.BrandColor == nil {
		return ""
	}
	return *l.BrandColor
}
