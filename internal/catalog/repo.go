package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListSections returns active sections in display order.
func (r *Repository) ListSections(ctx context.Context) ([]models.Section, error) {
	var sections []models.Section
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&sections).Error
	return sections, err
}

// ListCategories returns active categories, optionally scoped to a section.
func (r *Repository) ListCategories(ctx context.Context, sectionID *uint) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if sectionID != nil {
		query = query.Where("section_id = ?", *sectionID)
	}
	var categories []models.Category
	err := query.Order("sort_order ASC").Find(&categories).Error
	return categories, err
}

// ListProducts returns active products, optionally filtered by category name.
func (r *Repository) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var products []models.Product
	err := query.Order("id ASC").Find(&products).Error
	return products, err
}

// ListFeatured returns active products flagged for the storefront's
// featured strip.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var products []models.Product
	err := query.Find(&products).Error
	return products, err
}

// SearchProducts matches active products by name or description.
func (r *Repository) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	pattern := "%" + term + "%"
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

// FindProductByID loads a single active product.
func (r *Repository) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
