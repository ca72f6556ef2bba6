package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	ListForUser(ctx context.Context, userID uint) ([]models.CartItem, error)
	AddOne(ctx context.Context, userID, productID uint) error
	SetQuantity(ctx context.Context, userID, productID uint, quantity int) error
	DeleteItem(ctx context.Context, userID, productID uint) error
	ClearForUser(ctx context.Context, userID uint) error
}

// ProductFinder resolves catalog products referenced by cart mutations.
type ProductFinder interface {
	FindProductByID(ctx context.Context, id uint) (*models.Product, error)
}

// ItemDTO is the wire shape of one cart line.
type ItemDTO struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// CartDTO is the wire shape of the whole cart.
type CartDTO struct {
	Items []ItemDTO `json:"items"`
	Total float64   `json:"total"`
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    CartRepository
	ProductRepo ProductFinder
}

// Service exposes business rules for the per-user cart.
type Service interface {
	Add(ctx context.Context, userID, productID uint) error
	Items(ctx context.Context, userID uint) (CartDTO, error)
	SetQuantity(ctx context.Context, userID, productID uint, quantity int) error
	Remove(ctx context.Context, userID, productID uint) error
}

type service struct {
	cartRepo    CartRepository
	productRepo ProductFinder
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

// Add puts one unit of the product into the cart, bumping the quantity when
// the product is already present.
func (s *service) Add(ctx context.Context, userID, productID uint) error {
	if userID == 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	if productID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	if _, err := s.productRepo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.cartRepo.AddOne(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return nil
}

// Items returns the cart with server-computed line and cart totals.
func (s *service) Items(ctx context.Context, userID uint) (CartDTO, error) {
	if userID == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	records, err := s.cartRepo.ListForUser(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	items := make([]ItemDTO, 0, len(records))
	cartTotal := decimal.Zero
	for _, record := range records {
		if record.Product == nil {
			continue
		}
		lineTotal := record.Product.Price.Mul(decimal.NewFromInt(int64(record.Quantity)))
		cartTotal = cartTotal.Add(lineTotal)
		items = append(items, ItemDTO{
			ID:       record.ProductID,
			Name:     record.Product.Name,
			Image:    record.Product.ImagePath,
			Price:    record.Product.Price.InexactFloat64(),
			Quantity: record.Quantity,
			Total:    lineTotal.InexactFloat64(),
		})
	}

	return CartDTO{Items: items, Total: cartTotal.InexactFloat64()}, nil
}

// SetQuantity stores the absolute quantity; zero or less removes the line.
func (s *service) SetQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if userID == 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	if productID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	if quantity < 1 {
		return s.Remove(ctx, userID, productID)
	}
	if err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart quantity")
	}
	return nil
}

// Remove drops the product from the cart regardless of prior state.
func (s *service) Remove(ctx context.Context, userID, productID uint) error {
	if userID == 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	if productID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	if err := s.cartRepo.DeleteItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return nil
}
