package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lumina/internal/db"
	"gorm.io/gorm"
)

var (
	ErrParishNotFound    = errors.New("parish not found")
	ErrParishSlugTaken   = errors.New("another parish already uses this name")
	ErrParishSlugInvalid = errors.New("parish name must contain letters or digits")
)

// ParishService manages the public parish directory.
type ParishService struct {
	db          *gorm.DB
	revalidator Revalidator
}

// ParishInput carries every mutable parish field. Updates replace all of them.
type ParishInput struct {
	Name        string
	Location    string
	Description string
	WebsiteURL  string
	Featured    bool
}

// NewParishService returns a ParishService. revalidator may be nil.
func NewParishService(gdb *gorm.DB, revalidator Revalidator) *ParishService {
	return &ParishService{db: gdb, revalidator: revalidator}
}

// List returns the directory order: featured parishes first, then by name.
func (s *ParishService) List() ([]db.Parish, error) {
	var parishes []db.Parish
	if err := s.db.Order("featured DESC").Order("name ASC").Find(&parishes).Error; err != nil {
		return nil, storeError("list parishes", err)
	}
	return parishes, nil
}

// ListRecent returns every parish, newest first.
func (s *ParishService) ListRecent() ([]db.Parish, error) {
	var parishes []db.Parish
	if err := s.db.Order("created_at DESC").Find(&parishes).Error; err != nil {
		return nil, storeError("list recent parishes", err)
	}
	return parishes, nil
}

// Count returns the number of parishes in the directory.
func (s *ParishService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&db.Parish{}).Count(&count).Error; err != nil {
		return 0, storeError("count parishes", err)
	}
	return count, nil
}

// Get fetches a parish by id.
func (s *ParishService) Get(id string) (*db.Parish, error) {
	return s.find("id = ?", id)
}

// GetBySlug fetches a parish by its public slug.
func (s *ParishService) GetBySlug(slug string) (*db.Parish, error) {
	return s.find("slug = ?", slug)
}

func (s *ParishService) find(query string, arg string) (*db.Parish, error) {
	var parish db.Parish
	if err := s.db.Where(query, arg).First(&parish).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParishNotFound
		}
		return nil, storeError("get parish", err)
	}
	return &parish, nil
}

// Create adds a parish and derives its slug from the name.
func (s *ParishService) Create(ctx context.Context, input ParishInput) (*db.Parish, error) {
	parish, err := buildParish(input)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugFree(tx, parish.Slug, ""); err != nil {
			return err
		}
		return tx.Create(&parish).Error
	})
	if err != nil {
		return nil, classifyParishError("create parish", err)
	}

	revalidate(ctx, s.revalidator, PathHome, PathChurches, ParishPath(parish.Slug), PathAdmin)
	return &parish, nil
}

// Update replaces every mutable field of the parish and regenerates its slug.
func (s *ParishService) Update(ctx context.Context, id string, input ParishInput) (*db.Parish, error) {
	replacement, err := buildParish(input)
	if err != nil {
		return nil, err
	}

	var (
		parish  db.Parish
		oldSlug string
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&parish).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParishNotFound
			}
			return err
		}
		if err := ensureSlugFree(tx, replacement.Slug, parish.ID); err != nil {
			return err
		}

		oldSlug = parish.Slug
		parish.Name = replacement.Name
		parish.Location = replacement.Location
		parish.Description = replacement.Description
		parish.WebsiteURL = replacement.WebsiteURL
		parish.Featured = replacement.Featured
		parish.Slug = replacement.Slug
		return tx.Save(&parish).Error
	})
	if err != nil {
		return nil, classifyParishError("update parish", err)
	}

	revalidate(ctx, s.revalidator, PathHome, PathChurches, ParishPath(oldSlug), ParishPath(parish.Slug), PathAdmin)
	return &parish, nil
}

// Delete removes a parish. A parish that is already gone yields ErrParishNotFound.
func (s *ParishService) Delete(ctx context.Context, id string) error {
	var parish db.Parish
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&parish).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParishNotFound
			}
			return err
		}
		result := tx.Where("id = ?", id).Delete(&db.Parish{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrParishNotFound
		}
		return nil
	})
	if err != nil {
		return classifyParishError("delete parish", err)
	}

	revalidate(ctx, s.revalidator, PathHome, PathChurches, ParishPath(parish.Slug), PathAdmin)
	return nil
}

func buildParish(input ParishInput) (db.Parish, error) {
	if err := requireFields(
		requiredField{name: "name", value: input.Name},
		requiredField{name: "location", value: input.Location},
	); err != nil {
		return db.Parish{}, err
	}

	name := strings.TrimSpace(input.Name)
	slug := db.Slugify(name)
	if slug == "" {
		return db.Parish{}, ErrParishSlugInvalid
	}

	return db.Parish{
		Name:        name,
		Location:    strings.TrimSpace(input.Location),
		Description: db.NullableString(input.Description),
		WebsiteURL:  db.NullableString(input.WebsiteURL),
		Featured:    input.Featured,
		Slug:        slug,
	}, nil
}

func ensureSlugFree(tx *gorm.DB, slug, exceptID string) error {
	query := tx.Model(&db.Parish{}).Where("slug = ?", slug)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrParishSlugTaken
	}
	return nil
}

func classifyParishError(op string, err error) error {
	switch {
	case errors.Is(err, ErrParishNotFound), errors.Is(err, ErrParishSlugTaken):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrParishSlugTaken
	default:
		return storeError(op, err)
	}
}
