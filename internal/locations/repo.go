package locations

import (
	"context"

	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
	"github.com/vapecloud/miniapp/pkg/enums"
)

// Repository encapsulates fulfillment location persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a locations repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCities returns the distinct cities with at least one active delivery
// location, alphabetically.
func (r *Repository) ListCities(ctx context.Context) ([]string, error) {
	var cities []string
	err := r.db.WithContext(ctx).
		Model(&models.PickupLocation{}).
		Where("location_type = ? AND is_active = ?", enums.DeliveryTypeDelivery, true).
		Distinct("city").
		Order("city ASC").
		Pluck("city", &cities).Error
	return cities, err
}

// ListByTypeAndCity returns active locations of the given type, optionally
// scoped to a city, in insertion order.
func (r *Repository) ListByTypeAndCity(ctx context.Context, locationType enums.DeliveryType, city string) ([]models.PickupLocation, error) {
	query := r.db.WithContext(ctx).
		Where("location_type = ? AND is_active = ?", locationType, true)
	if city != "" {
		query = query.Where("city = ?", city)
	}
	var records []models.PickupLocation
	err := query.Order("id ASC").Find(&records).Error
	return records, err
}

// FindByID loads a single active location.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.PickupLocation, error) {
	var record models.PickupLocation
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
