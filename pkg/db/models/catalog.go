package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Section is a top-level catalog grouping (devices, consumables, accessories).
type Section struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex;not null"`
	DisplayName string `gorm:"column:display_name;not null"`
	Icon        string `gorm:"column:icon"`
	SortOrder   int    `gorm:"column:sort_order;not null;default:0"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true"`
}

// Category groups products inside a section.
type Category struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex;not null"`
	DisplayName string `gorm:"column:display_name;not null"`
	Icon        string `gorm:"column:icon"`
	SectionID   *uint  `gorm:"column:section_id"`
	SortOrder   int    `gorm:"column:sort_order;not null;default:0"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true"`
}

// Product is a sellable catalog entry. Specifications hold the raw JSON list
// the storefront renders as bullet points.
type Product struct {
	ID             uint            `gorm:"column:id;primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Description    string          `gorm:"column:description"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImagePath      string          `gorm:"column:image_path"`
	Specifications json.RawMessage `gorm:"column:specifications"`
	Category       string          `gorm:"column:category;not null;default:'pods'"`
	IsFeatured     bool            `gorm:"column:is_featured;not null;default:false"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
