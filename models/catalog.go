package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MerchantStatus is the merchant lifecycle: created pending, approved
// by an admin, active once trading.
type MerchantStatus string

const (
	MerchantPending  MerchantStatus = "pending"
	MerchantApproved MerchantStatus = "approved"
	MerchantActive   MerchantStatus = "active"
)

// Merchant is owned by exactly one vendor user. A vendor can own
// several merchants.
type Merchant struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       uint           `json:"user_id" gorm:"not null;index"`
	User         User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name         string         `json:"name" gorm:"not null"`
	MerchantType string         `json:"merchant_type"` // restaurant, grocery
	Description  string         `json:"description"`
	City         string         `json:"city"`
	IsOpen       bool           `json:"is_open" gorm:"default:true"`
	Status       MerchantStatus `json:"status" gorm:"not null;default:'pending'"`
	Categories   []Category     `json:"categories,omitempty" gorm:"foreignKey:MerchantID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PubliclyVisible reports whether the merchant shows up for
// non-owning, non-admin viewers.
func (m *Merchant) PubliclyVisible() bool {
	return m.Status == MerchantApproved || m.Status == MerchantActive
}

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	MerchantID  uint      `json:"merchant_id" gorm:"not null;index"`
	Merchant    Merchant  `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Category    Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Unit        string          `json:"unit" gorm:"default:'pcs'"`
	Stock       int             `json:"stock" gorm:"default:0"`
	IsAvailable bool            `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
