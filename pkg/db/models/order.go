package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vapecloud/miniapp/pkg/enums"
)

// Order is a placed order snapshot. PickupLocation holds the human-readable
// fulfillment label shown in the profile ("Point 1 - Lenina st. 10" or
// "Delivery to Moscow - ...").
type Order struct {
	ID              uint               `gorm:"column:id;primaryKey"`
	UserID          uint               `gorm:"column:user_id;not null;index"`
	TotalAmount     decimal.Decimal    `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CashbackEarned  decimal.Decimal    `gorm:"column:cashback_earned;type:numeric(12,2);not null"`
	CustomerName    string             `gorm:"column:customer_name;not null"`
	CustomerPhone   string             `gorm:"column:customer_phone;not null"`
	PickupLocation  string             `gorm:"column:pickup_location"`
	DeliveryType    enums.DeliveryType `gorm:"column:delivery_type;not null;default:'pickup'"`
	DeliveryCity    string             `gorm:"column:delivery_city"`
	DeliveryAddress string             `gorm:"column:delivery_address"`
	DeliveryPrice   decimal.Decimal    `gorm:"column:delivery_price;type:numeric(12,2);not null;default:0"`
	Status          enums.OrderStatus  `gorm:"column:status;not null;default:'pending'"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}
