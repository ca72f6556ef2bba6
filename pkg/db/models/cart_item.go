package models

import "time"

// CartItem links a user to a product with a quantity. Prices are not
// snapshotted; the cart is always priced from the live product row.
type CartItem struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	UserID    uint      `gorm:"column:user_id;not null;index:idx_cart_user_product,unique"`
	ProductID uint      `gorm:"column:product_id;not null;index:idx_cart_user_product,unique"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
