package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DemoRequest is a parish's request for a product demo. Rows are never edited.
type DemoRequest struct {
	ID         string `gorm:"primaryKey;size:36"`
	Name       string `gorm:"not null"`
	ParishName string `gorm:"not null"`
	Location   string `gorm:"not null"`
	Email      string `gorm:"not null"`
	Phone      *string
	Message    *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (d *DemoRequest) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (d DemoRequest) PhoneText() string {
	return deref(d.Phone)
}

func (d DemoRequest) MessageText() string {
	return deref(d.Message)
}
