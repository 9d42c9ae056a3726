package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lumina/internal/db"
	"gorm.io/gorm"
)

const (
	// PublicFeedbackLimit caps the public feedback page.
	PublicFeedbackLimit = 20
	// HomeFeedbackLimit caps the feedback shown on the home page.
	HomeFeedbackLimit = 3
)

var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackService stores contact-form messages and their public visibility.
type FeedbackService struct {
	db          *gorm.DB
	revalidator Revalidator
}

// FeedbackInput is what the contact form submits.
type FeedbackInput struct {
	Name     string
	Email    string
	Message  string
	IsPublic bool
}

func NewFeedbackService(gdb *gorm.DB, revalidator Revalidator) *FeedbackService {
	return &FeedbackService{db: gdb, revalidator: revalidator}
}

// List returns every feedback message, newest first.
func (s *FeedbackService) List() ([]db.Feedback, error) {
	var items []db.Feedback
	if err := s.db.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, storeError("list feedback", err)
	}
	return items, nil
}

// ListPublic returns at most limit public messages, newest first.
func (s *FeedbackService) ListPublic(limit int) ([]db.Feedback, error) {
	if limit <= 0 {
		limit = PublicFeedbackLimit
	}

	var items []db.Feedback
	err := s.db.Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, storeError("list public feedback", err)
	}
	return items, nil
}

func (s *FeedbackService) Get(id string) (*db.Feedback, error) {
	var item db.Feedback
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, storeError("get feedback", err)
	}
	return &item, nil
}

// Create stores a message. Only the message itself is required.
func (s *FeedbackService) Create(ctx context.Context, input FeedbackInput) (*db.Feedback, error) {
	if err := requireFields(requiredField{name: "message", value: input.Message}); err != nil {
		return nil, err
	}

	item := db.Feedback{
		Message:  strings.TrimSpace(input.Message),
		Name:     db.NullableString(input.Name),
		Email:    db.NullableString(input.Email),
		IsPublic: input.IsPublic,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, storeError("create feedback", err)
	}

	revalidate(ctx, s.revalidator, PathHome, PathFeedbacks, PathAdmin)
	return &item, nil
}

// SetVisibility changes only the public flag of a message.
func (s *FeedbackService) SetVisibility(ctx context.Context, id string, isPublic bool) (*db.Feedback, error) {
	var item db.Feedback
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Feedback{}).Where("id = ?", id).UpdateColumn("is_public", isPublic)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrFeedbackNotFound
		}
		return tx.Where("id = ?", id).First(&item).Error
	})
	if err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			return nil, err
		}
		return nil, storeError("update feedback visibility", err)
	}

	revalidate(ctx, s.revalidator, PathHome, PathFeedbacks, PathAdmin)
	return &item, nil
}

// Delete removes a message. A message that is already gone yields ErrFeedbackNotFound.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Feedback{})
	if result.Error != nil {
		return storeError("delete feedback", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}

	revalidate(ctx, s.revalidator, PathHome, PathFeedbacks, PathAdmin)
	return nil
}
