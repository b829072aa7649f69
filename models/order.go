package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a marketplace order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

type Order struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	CustomerID      uint                 `json:"customer_id" gorm:"not null;index"`
	Customer        User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	MerchantID      uint                 `json:"merchant_id" gorm:"not null;index"`
	Merchant        Merchant             `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	CourierID       *uint                `json:"courier_id" gorm:"index"`
	Courier         *User                `json:"courier,omitempty" gorm:"foreignKey:CourierID"`
	Status          OrderStatus          `json:"status" gorm:"not null;default:'pending'"`
	Subtotal        decimal.Decimal      `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Fee             decimal.Decimal      `json:"fee" gorm:"type:decimal(10,2);not null"`
	Total           decimal.Decimal      `json:"total" gorm:"type:decimal(10,2);not null"`
	DeliveryAddress string               `json:"delivery_address" gorm:"not null"`
	Items           []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// Terminal reports whether the order has reached a status with no
// legal successors.
func (o *Order) Terminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Product   Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	// Price is the unit price frozen at order time; later product
	// price changes must not affect it.
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
}

// Recalculate refreshes TotalPrice from the current quantity and unit
// price. Call it whenever either is set.
func (i *OrderItem) Recalculate() {
	i.TotalPrice = i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory is the append-only audit trail of status changes.
// PreviousStatus is nil only for the order-creation seed row; ChangedBy
// is nil for system-initiated changes or when the actor was deleted.
type OrderStatusHistory struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	OrderID        uint         `json:"order_id" gorm:"not null;index"`
	PreviousStatus *OrderStatus `json:"previous_status"`
	NewStatus      OrderStatus  `json:"new_status" gorm:"not null"`
	ChangedByID    *uint        `json:"changed_by"`
	ChangedBy      *User        `json:"-" gorm:"foreignKey:ChangedByID"`
	ChangedAt      time.Time    `json:"changed_at"`
}
