package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/models"
	apperrors "github.com/lofohq/lofo-server/pkg/errors"
)

// CategoryDTO is the API-friendly catalog entry.
type CategoryDTO struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// CatalogService manages the admin-editable category→sub-item lookup used
// by report validation and the match scorer. It is injected rather than a
// package-level constant so tests can run against synthetic category sets.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) (*CatalogService, error) {
	if db == nil {
		return nil, errors.New("catalog service: db is required")
	}
	return &CatalogService{db: db}, nil
}

// List returns all categories ordered by name.
func (s *CatalogService) List(ctx context.Context) ([]CategoryDTO, error) {
	ctx = ensureContext(ctx)

	var rows []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog service: list categories: %w", err)
	}

	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		items := row.ItemNames()
		if items == nil {
			items = []string{}
		}
		out = append(out, CategoryDTO{Name: row.Name, Items: items})
	}
	return out, nil
}

// ValidateItem enforces the report invariant: when a category defines a
// non-empty sub-item list, the chosen sub-type name must come from it. An
// empty sub-type name is always valid, as is any value for categories
// without an enumerated list.
func (s *CatalogService) ValidateItem(ctx context.Context, category, subTypeName string) error {
	ctx = ensureContext(ctx)

	subTypeName = strings.TrimSpace(subTypeName)
	if subTypeName == "" {
		return nil
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return apperrors.NewBadRequest("sub type name requires a category")
	}

	var row models.Category
	err := s.db.WithContext(ctx).Where("name = ?", category).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog service: load category: %w", err)
	}

	items := row.ItemNames()
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if item == subTypeName {
			return nil
		}
	}
	return apperrors.NewBadRequest(fmt.Sprintf("%q is not a known item of category %q", subTypeName, category))
}

// Upsert creates or replaces a category's item list.
func (s *CatalogService) Upsert(ctx context.Context, name string, items []string) (*CategoryDTO, error) {
	ctx = ensureContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("category name is required")
	}

	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned, _ = appendUnique(cleaned, item)
		}
	}

	var row models.Category
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.Category{Name: name, Items: models.EncodeItems(cleaned)}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, fmt.Errorf("catalog service: create category: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("catalog service: load category: %w", err)
	default:
		if err := s.db.WithContext(ctx).Model(&row).
			Update("items", models.EncodeItems(cleaned)).Error; err != nil {
			return nil, fmt.Errorf("catalog service: update category: %w", err)
		}
	}

	return &CategoryDTO{Name: name, Items: cleaned}, nil
}

// Delete removes a category from the catalog.
func (s *CatalogService) Delete(ctx context.Context, name string) error {
	ctx = ensureContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewBadRequest("category name is required")
	}

	result := s.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Category{})
	if result.Error != nil {
		return fmt.Errorf("catalog service: delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
