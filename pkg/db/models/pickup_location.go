package models

import (
	"github.com/shopspring/decimal"

	"github.com/vapecloud/miniapp/pkg/enums"
)

// PickupLocation is a fulfillment point. Rows with LocationType=pickup are
// collection points; rows with LocationType=delivery carry the courier fee
// for their city.
type PickupLocation struct {
	ID            uint               `gorm:"column:id;primaryKey"`
	Name          string             `gorm:"column:name;not null"`
	Address       string             `gorm:"column:address;not null"`
	City          string             `gorm:"column:city;index"`
	LocationType  enums.DeliveryType `gorm:"column:location_type;not null;default:'pickup'"`
	DeliveryPrice decimal.Decimal    `gorm:"column:delivery_price;type:numeric(12,2);not null;default:0"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
}
