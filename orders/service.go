// Package orders implements the order aggregate: creation with frozen
// line prices, the status transition pipeline, and courier assignment.
package orders

import (
	"errors"
	"time"

	"food-marketplace-api/apperr"
	"food-marketplace-api/models"
	"food-marketplace-api/notifications"
	"food-marketplace-api/scope"
	"food-marketplace-api/statemachine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	notifier *notifications.Service
}

func NewService(db *gorm.DB, log *zap.Logger, notifier *notifications.Service) *Service {
	return &Service{db: db, log: log, notifier: notifier}
}

type ItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateInput struct {
	MerchantID      uint            `json:"merchant_id" binding:"required"`
	DeliveryAddress string          `json:"delivery_address" binding:"required"`
	Fee             decimal.Decimal `json:"fee"`
	Items           []ItemInput     `json:"items" binding:"required,min=1"`
}

// Create places a new order in pending status. Unit prices are frozen
// from the product catalog at this moment, the subtotal is the sum of
// the line totals, and the delivery fee arrives already computed. A
// seed history row with a nil previous status is written; no
// notification is fired on creation.
func (s *Service) Create(actor scope.Actor, in CreateInput) (*models.Order, error) {
	if actor.Anonymous() {
		return nil, apperr.New(apperr.Unauthenticated, "authentication required")
	}
	if actor.Role != models.RoleCustomer {
		return nil, apperr.New(apperr.Forbidden, "only customers can place orders")
	}
	if len(in.Items) == 0 {
		return nil, apperr.New(apperr.Validation, "order must contain at least one item")
	}
	if in.Fee.IsNegative() {
		return nil, apperr.New(apperr.Validation, "fee must not be negative")
	}

	var merchant models.Merchant
	if err := scope.Merchants(s.db, actor).First(&merchant, in.MerchantID).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "merchant not found")
	}
	if !merchant.IsOpen {
		return nil, apperr.New(apperr.Validation, "merchant is currently closed")
	}

	var items []models.OrderItem
	subtotal := decimal.Zero
	for _, reqItem := range in.Items {
		if reqItem.Quantity < 1 {
			return nil, apperr.New(apperr.Validation, "item quantity must be at least 1")
		}
		var product models.Product
		if err := s.db.Preload("Category").First(&product, reqItem.ProductID).Error; err != nil {
			return nil, apperr.Newf(apperr.Validation, "product %d not found", reqItem.ProductID)
		}
		if product.Category.MerchantID != merchant.ID {
			return nil, apperr.Newf(apperr.Validation,
				"product '%s' does not belong to this merchant", product.Name)
		}
		if !product.IsAvailable {
			return nil, apperr.Newf(apperr.Validation,
				"product '%s' is not available", product.Name)
		}
		item := models.OrderItem{
			ProductID: product.ID,
			Quantity:  reqItem.Quantity,
			Price:     product.Price,
		}
		item.Recalculate()
		subtotal = subtotal.Add(item.TotalPrice)
		items = append(items, item)
	}

	order := models.Order{
		CustomerID:      actor.ID,
		MerchantID:      merchant.ID,
		Status:          models.StatusPending,
		Subtotal:        subtotal,
		Fee:             in.Fee,
		Total:           subtotal.Add(in.Fee),
		DeliveryAddress: in.DeliveryAddress,
		Items:           items,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		seed := models.OrderStatusHistory{
			OrderID:     order.ID,
			NewStatus:   models.StatusPending,
			ChangedByID: changedBy(actor),
			ChangedAt:   time.Now(),
		}
		return tx.Create(&seed).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("customer_id", actor.ID),
		zap.String("total", order.Total.String()))
	return s.Get(actor, order.ID)
}

// List returns the orders visible to the actor, newest first.
func (s *Service) List(actor scope.Actor) ([]models.Order, error) {
	var out []models.Order
	err := scope.Orders(s.db, actor).
		Preload("Items.Product").
		Preload("Merchant").
		Preload("Courier").
		Order("orders.created_at desc").
		Find(&out).Error
	return out, err
}

// Get returns a single order if it is in the actor's scope, and
// NotFound otherwise, whether or not the record exists.
func (s *Service) Get(actor scope.Actor, id uint) (*models.Order, error) {
	var order models.Order
	err := scope.Orders(s.db, actor).
		Preload("Items.Product").
		Preload("Merchant").
		Preload("Courier").
		Preload("StatusHistory").
		First(&order, "orders.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus loads the order within the actor's scope and applies
// the requested transition.
func (s *Service) UpdateStatus(actor scope.Actor, id uint, newStatus models.OrderStatus) (*models.Order, *models.OrderStatusHistory, error) {
	if actor.Anonymous() {
		return nil, nil, apperr.New(apperr.Unauthenticated, "authentication required")
	}
	var order models.Order
	err := scope.Orders(s.db, actor).
		Preload("Merchant").
		First(&order, "orders.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, nil, err
	}
	history, err := s.ApplyTransition(actor, &order, newStatus)
	if err != nil {
		return nil, nil, err
	}
	return &order, history, nil
}

// ApplyTransition validates newStatus against the state machine and,
// on success, persists the status change and exactly one audit row in
// a single transaction, then fans out notifications. The status update
// is guarded on the previously observed status: if a concurrent
// transition got there first, no row matches and the caller loses with
// Conflict instead of silently overwriting.
func (s *Service) ApplyTransition(actor scope.Actor, order *models.Order, newStatus models.OrderStatus) (*models.OrderStatusHistory, error) {
	if err := statemachine.CanTransition(order.Status, newStatus, actor.Role); err != nil {
		return nil, err
	}
	if order.Status == models.StatusPending && !order.Total.Equal(order.Subtotal.Add(order.Fee)) {
		return nil, apperr.New(apperr.Validation, "order total does not equal subtotal plus fee")
	}

	prev := order.Status
	history := models.OrderStatusHistory{
		OrderID:        order.ID,
		PreviousStatus: &prev,
		NewStatus:      newStatus,
		ChangedByID:    changedBy(actor),
		ChangedAt:      time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, prev).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Newf(apperr.Conflict,
				"order #%d was changed concurrently, retry", order.ID)
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	order.Status = newStatus
	s.log.Info("order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(newStatus)),
		zap.String("role", string(actor.Role)))
	s.notifier.FanOut(order, notifications.Transition{Previous: prev, New: newStatus})
	return &history, nil
}

// AssignCourier sets or replaces the order's courier. It writes no
// history row and fires no notification by itself; the courier starts
// hearing about the order on the next status change.
func (s *Service) AssignCourier(actor scope.Actor, orderID, courierID uint) (*models.Order, error) {
	if actor.Anonymous() {
		return nil, apperr.New(apperr.Unauthenticated, "authentication required")
	}
	if actor.Role != models.RoleVendor && actor.Role != models.RoleAdmin {
		return nil, apperr.New(apperr.Forbidden, "only vendors and admins can assign couriers")
	}
	var order models.Order
	err := scope.Orders(s.db, actor).First(&order, "orders.id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, err
	}

	var courier models.User
	if err := s.db.First(&courier, courierID).Error; err != nil {
		return nil, apperr.New(apperr.Validation, "courier not found")
	}
	if courier.Role != models.RoleCourier {
		return nil, apperr.Newf(apperr.Validation, "user %d is not a courier", courierID)
	}

	if err := s.db.Model(&order).Update("courier_id", courierID).Error; err != nil {
		return nil, err
	}
	order.CourierID = &courierID
	return &order, nil
}

func changedBy(actor scope.Actor) *uint {
	if actor.ID == 0 {
		return nil
	}
	id := actor.ID
	return &id
}
