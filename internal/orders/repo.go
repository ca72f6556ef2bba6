package orders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/internal/cart"
	"github.com/vapecloud/miniapp/internal/users"
	"github.com/vapecloud/miniapp/pkg/db/models"
)

// Repository is the persistence surface for order placement and history.
// It spans orders, cart cleanup and balance credit so checkout can run all
// three inside one transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Order, error)
	CartLines(ctx context.Context, userID uint) ([]models.CartItem, error)
	ClearCart(ctx context.Context, userID uint) error
	CreditBalance(ctx context.Context, userID uint, amount decimal.Decimal) error
}

type repository struct {
	db       *gorm.DB
	cartRepo *cart.Repository
	userRepo *users.Repository
}

// NewRepository constructs an order repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db:       db,
		cartRepo: cart.NewRepository(db),
		userRepo: users.NewRepository(db),
	}
}

// WithTx scopes the repository and its collaborators to the transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{
		db:       tx,
		cartRepo: r.cartRepo.WithTx(tx),
		userRepo: r.userRepo.WithTx(tx),
	}
}

// Create inserts the order record.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ListByUser returns the user's most recent orders, newest first.
func (r *repository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Order, error) {
	var records []models.Order
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// CartLines loads the user's cart with products for total computation.
func (r *repository) CartLines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return r.cartRepo.ListForUser(ctx, userID)
}

// ClearCart drops the user's cart after a placed order.
func (r *repository) ClearCart(ctx context.Context, userID uint) error {
	return r.cartRepo.ClearForUser(ctx, userID)
}

// CreditBalance adds earned cashback to the user's balance.
func (r *repository) CreditBalance(ctx context.Context, userID uint, amount decimal.Decimal) error {
	return r.userRepo.CreditBalance(ctx, userID, amount)
}
