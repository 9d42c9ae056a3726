package db

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Parish is an entry in the public parish directory.
type Parish struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"not null"`
	Location    string  `gorm:"not null"`
	Description *string `gorm:"type:text"`
	WebsiteURL  *string
	Featured    bool   `gorm:"not null;index"`
	Slug        string `gorm:"uniqueIndex;not null;size:191"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Parish) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DescriptionText returns the description or an empty string.
func (p Parish) DescriptionText() string {
	return deref(p.Description)
}

// Website returns the website URL or an empty string.
func (p Parish) Website() string {
	return deref(p.WebsiteURL)
}

// Slugify lowercases name, collapses every run of characters outside [a-z0-9]
// into a single hyphen and strips leading and trailing hyphens.
func Slugify(name string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// NullableString maps blank input onto NULL.
func NullableString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
