package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a shopper identified by their Telegram account.
type User struct {
	ID         uint            `gorm:"column:id;primaryKey"`
	TelegramID int64           `gorm:"column:telegram_id;uniqueIndex;not null"`
	Username   *string         `gorm:"column:username"`
	FirstName  string          `gorm:"column:first_name;not null"`
	PhotoURL   string          `gorm:"column:photo_url"`
	Balance    decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
