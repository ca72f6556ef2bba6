package locations

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
	"github.com/vapecloud/miniapp/pkg/enums"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/logger"
)

// LocationRepository defines the persistence surface required by the service.
type LocationRepository interface {
	ListCities(ctx context.Context) ([]string, error)
	ListByTypeAndCity(ctx context.Context, locationType enums.DeliveryType, city string) ([]models.PickupLocation, error)
	FindByID(ctx context.Context, id uint) (*models.PickupLocation, error)
}

// Cache is the optional read-through cache in front of location lookups.
// A nil Cache disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	LocationsKey(deliveryType, city string) string
	CitiesKey() string
}

// LocationDTO is the wire shape of one fulfillment location.
type LocationDTO struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	DeliveryPrice *float64 `json:"delivery_price,omitempty"`
}

// ServiceParams groups dependencies for the locations service.
type ServiceParams struct {
	LocationRepo LocationRepository
	Cache        Cache
	CacheTTL     time.Duration
	Logger       *logger.Logger
}

// Service exposes read operations over fulfillment locations.
type Service interface {
	Cities(ctx context.Context) ([]string, error)
	List(ctx context.Context, locationType enums.DeliveryType, city string) ([]LocationDTO, error)
	Find(ctx context.Context, id uint) (*models.PickupLocation, error)
}

type service struct {
	locationRepo LocationRepository
	cache        Cache
	cacheTTL     time.Duration
	logg         *logger.Logger
}

// NewService builds a locations service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.LocationRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location repo is required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &service{
		locationRepo: params.LocationRepo,
		cache:        params.Cache,
		cacheTTL:     ttl,
		logg:         params.Logger,
	}, nil
}

// Cities returns the cities where delivery is available.
func (s *service) Cities(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		var cached []string
		if ok := s.readCache(ctx, s.cache.CitiesKey(), &cached); ok {
			return cached, nil
		}
	}

	cities, err := s.locationRepo.ListCities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cities")
	}
	if cities == nil {
		cities = []string{}
	}

	if s.cache != nil {
		s.writeCache(ctx, s.cache.CitiesKey(), cities)
	}
	return cities, nil
}

// List returns the active locations for the type/city pair.
func (s *service) List(ctx context.Context, locationType enums.DeliveryType, city string) ([]LocationDTO, error) {
	if !locationType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown location type")
	}

	var key string
	if s.cache != nil {
		key = s.cache.LocationsKey(locationType.String(), city)
		var cached []LocationDTO
		if ok := s.readCache(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	records, err := s.locationRepo.ListByTypeAndCity(ctx, locationType, city)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}

	dtos := make([]LocationDTO, 0, len(records))
	for _, record := range records {
		dto := LocationDTO{
			ID:      record.ID,
			Name:    record.Name,
			Address: record.Address,
		}
		if record.LocationType == enums.DeliveryTypeDelivery {
			price := record.DeliveryPrice.InexactFloat64()
			dto.DeliveryPrice = &price
		}
		dtos = append(dtos, dto)
	}

	if s.cache != nil {
		s.writeCache(ctx, key, dtos)
	}
	return dtos, nil
}

// Find loads one active location by ID.
func (s *service) Find(ctx context.Context, id uint) (*models.PickupLocation, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location ID is required")
	}
	record, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return record, nil
}

// readCache returns true only when the key exists and decodes cleanly.
// Cache failures fall through to the database.
func (s *service) readCache(ctx context.Context, key string, dest any) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "location cache write failed")
	}
}
