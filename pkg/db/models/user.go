package models

import (
	"time"

	"github.com/dokanapp/storefront-go/pkg/enums"
)

// User is a registered buyer or vendor account.
type User struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         enums.Role `gorm:"column:role;not null"`
	Phone        string     `gorm:"column:phone"`
	ShopName     string     `gorm:"column:shop_name"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
