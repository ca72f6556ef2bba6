package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

// ProductRepository defines the persistence surface required by the catalog service.
type ProductRepository interface {
	ListSections(ctx context.Context) ([]models.Section, error)
	ListCategories(ctx context.Context, sectionID *uint) ([]models.Category, error)
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	SearchProducts(ctx context.Context, term string) ([]models.Product, error)
	FindProductByID(ctx context.Context, id uint) (*models.Product, error)
}

// FeaturedLimit caps the storefront's featured strip.
const FeaturedLimit = 8

// SectionDTO is the wire shape of a catalog section.
type SectionDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Icon        string `json:"icon"`
}

// CategoryDTO is the wire shape of a product category.
type CategoryDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Icon        string `json:"icon"`
	SectionID   *uint  `json:"section_id,omitempty"`
}

// ProductDTO is the wire shape of a storefront product.
type ProductDTO struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	Image          string          `json:"image"`
	Category       string          `json:"category"`
	Specifications json.RawMessage `json:"specifications,omitempty"`
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	ProductRepo ProductRepository
}

// Service exposes read operations over the storefront catalog.
type Service interface {
	Sections(ctx context.Context) ([]SectionDTO, error)
	Categories(ctx context.Context, sectionID *uint) ([]CategoryDTO, error)
	Products(ctx context.Context, category string) ([]ProductDTO, error)
	Featured(ctx context.Context) ([]ProductDTO, error)
	Search(ctx context.Context, term string) ([]ProductDTO, error)
	Product(ctx context.Context, id uint) (*ProductDTO, error)
}

type service struct {
	productRepo ProductRepository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{productRepo: params.ProductRepo}, nil
}

func (s *service) Sections(ctx context.Context) ([]SectionDTO, error) {
	sections, err := s.productRepo.ListSections(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sections")
	}
	dtos := make([]SectionDTO, 0, len(sections))
	for _, section := range sections {
		dtos = append(dtos, SectionDTO{
			ID:          section.ID,
			Name:        section.Name,
			DisplayName: section.DisplayName,
			Icon:        section.Icon,
		})
	}
	return dtos, nil
}

func (s *service) Categories(ctx context.Context, sectionID *uint) ([]CategoryDTO, error) {
	categories, err := s.productRepo.ListCategories(ctx, sectionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, CategoryDTO{
			ID:          category.ID,
			Name:        category.Name,
			DisplayName: category.DisplayName,
			Icon:        category.Icon,
			SectionID:   category.SectionID,
		})
	}
	return dtos, nil
}

func (s *service) Products(ctx context.Context, category string) ([]ProductDTO, error) {
	records, err := s.productRepo.ListProducts(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	dtos := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toProductDTO(record))
	}
	return dtos, nil
}

func (s *service) Featured(ctx context.Context) ([]ProductDTO, error) {
	records, err := s.productRepo.ListFeatured(ctx, FeaturedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	dtos := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toProductDTO(record))
	}
	return dtos, nil
}

func (s *service) Search(ctx context.Context, term string) ([]ProductDTO, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return []ProductDTO{}, nil
	}
	records, err := s.productRepo.SearchProducts(ctx, trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	dtos := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toProductDTO(record))
	}
	return dtos, nil
}

func (s *service) Product(ctx context.Context, id uint) (*ProductDTO, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	record, err := s.productRepo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toProductDTO(*record)
	return &dto, nil
}

func toProductDTO(record models.Product) ProductDTO {
	return ProductDTO{
		ID:             record.ID,
		Name:           record.Name,
		Description:    record.Description,
		Price:          record.Price.InexactFloat64(),
		Image:          record.ImagePath,
		Category:       record.Category,
		Specifications: record.Specifications,
	}
}
