package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/lumina/internal/db"
	"gorm.io/gorm"
)

const notifyTimeout = 5 * time.Second

var ErrDemoRequestNotFound = errors.New("demo request not found")

// DemoRequestNotifier is told about every stored demo request.
type DemoRequestNotifier interface {
	DemoRequested(ctx context.Context, req db.DemoRequest) error
}

// DemoRequestService stores demo requests for follow-up by the sales team.
type DemoRequestService struct {
	db          *gorm.DB
	revalidator Revalidator
	notifier    DemoRequestNotifier
}

// DemoRequestInput is what the demo-request form submits.
type DemoRequestInput struct {
	Name       string
	ParishName string
	Location   string
	Email      string
	Phone      string
	Message    string
}

func NewDemoRequestService(gdb *gorm.DB, revalidator Revalidator, notifier DemoRequestNotifier) *DemoRequestService {
	return &DemoRequestService{db: gdb, revalidator: revalidator, notifier: notifier}
}

// List returns every demo request, newest first.
func (s *DemoRequestService) List() ([]db.DemoRequest, error) {
	var items []db.DemoRequest
	if err := s.db.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, storeError("list demo requests", err)
	}
	return items, nil
}

// Create validates presence of the required fields, stores the request and
// notifies the sales inbox. A failed notification does not fail the request.
func (s *DemoRequestService) Create(ctx context.Context, input DemoRequestInput) (*db.DemoRequest, error) {
	if err := requireFields(
		requiredField{name: "name", value: input.Name},
		requiredField{name: "parishName", value: input.ParishName},
		requiredField{name: "location", value: input.Location},
		requiredField{name: "email", value: input.Email},
	); err != nil {
		return nil, err
	}

	item := db.DemoRequest{
		Name:       strings.TrimSpace(input.Name),
		ParishName: strings.TrimSpace(input.ParishName),
		Location:   strings.TrimSpace(input.Location),
		Email:      strings.TrimSpace(input.Email),
		Phone:      db.NullableString(input.Phone),
		Message:    db.NullableString(input.Message),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, storeError("create demo request", err)
	}

	revalidate(ctx, s.revalidator, PathAdmin)

	if s.notifier != nil {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.DemoRequested(notifyCtx, item); err != nil {
			log.Printf("notify demo request %s: %v", item.ID, err)
		}
	}

	return &item, nil
}

// Delete removes a demo request. A request that is already gone yields
// ErrDemoRequestNotFound.
func (s *DemoRequestService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&db.DemoRequest{})
	if result.Error != nil {
		return storeError("delete demo request", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDemoRequestNotFound
	}

	revalidate(ctx, s.revalidator, PathAdmin)
	return nil
}
