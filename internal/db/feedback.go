package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a message left through the contact form. IsPublic controls
// whether it is shown on the public feedback pages.
type Feedback struct {
	ID        string `gorm:"primaryKey;size:36"`
	Message   string `gorm:"type:text;not null"`
	Name      *string
	Email     *string
	IsPublic  bool      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (f *Feedback) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// DisplayName falls back to fallback for anonymous feedback.
func (f Feedback) DisplayName(fallback string) string {
	if name := deref(f.Name); name != "" {
		return name
	}
	return fallback
}

func (f Feedback) EmailText() string {
	return deref(f.Email)
}
