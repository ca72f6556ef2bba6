package cart

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
)

// Repository encapsulates cart item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListForUser returns the user's cart items with products preloaded,
// oldest entry first.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// FindItem loads the cart entry for a user/product pair.
func (r *Repository) FindItem(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddOne inserts a cart entry for the product or bumps its quantity by one.
func (r *Repository) AddOne(ctx context.Context, userID, productID uint) error {
	existing, err := r.FindItem(ctx, userID, productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.db.WithContext(ctx).Create(&models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
		}).Error
	}
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", existing.ID).
		Update("quantity", gorm.Expr("quantity + 1")).Error
}

// SetQuantity stores the absolute quantity for a user/product pair.
func (r *Repository) SetQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity).Error
}

// DeleteItem removes the cart entry for a user/product pair if present.
func (r *Repository) DeleteItem(ctx context.Context, userID, productID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

// ClearForUser drops every cart entry belonging to the user.
func (r *Repository) ClearForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
