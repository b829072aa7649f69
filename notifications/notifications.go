// Package notifications derives recipients for order status changes
// and manages each user's notification inbox.
package notifications

import (
	"fmt"

	"food-marketplace-api/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Transition is the status change being announced.
type Transition struct {
	Previous models.OrderStatus
	New      models.OrderStatus
}

// Recipients computes the notifications for a validated, changed
// transition as a pure function of the order and the transition.
// Recipients are never deduplicated: a user holding two roles on the
// same order gets one message per role. The order's Merchant must be
// loaded for the vendor recipient to resolve.
func Recipients(order *models.Order, tr Transition) []models.Notification {
	var out []models.Notification

	// The customer always hears about it, with both statuses.
	out = append(out, models.Notification{
		RecipientID: order.CustomerID,
		Message: fmt.Sprintf("Your order #%d status changed from %s to %s",
			order.ID, tr.Previous, tr.New),
	})

	// The courier only once assigned, new status only.
	if order.CourierID != nil {
		out = append(out, models.Notification{
			RecipientID: *order.CourierID,
			Message: fmt.Sprintf("Order #%d assigned to you is now %s",
				order.ID, tr.New),
		})
	}

	// The merchant's owning vendor, if the owner reference resolves.
	if order.Merchant.UserID != 0 {
		out = append(out, models.Notification{
			RecipientID: order.Merchant.UserID,
			Message: fmt.Sprintf("Order #%d for %s is now %s",
				order.ID, order.Merchant.Name, tr.New),
		})
	}
	return out
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// FanOut persists one notification per recipient. Each insert is
// independent: a failure for one recipient is logged and does not
// block the others, and nothing here rolls back the transition that
// triggered it.
func (s *Service) FanOut(order *models.Order, tr Transition) {
	for _, n := range Recipients(order, tr) {
		n := n
		if err := s.db.Create(&n).Error; err != nil {
			s.log.Warn("notification insert failed",
				zap.Uint("order_id", order.ID),
				zap.Uint("recipient_id", n.RecipientID),
				zap.Error(err))
		}
	}
}

// List returns the actor's notifications, newest first.
func (s *Service) List(actorID uint) ([]models.Notification, error) {
	var out []models.Notification
	err := s.db.Where("recipient_id = ?", actorID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// UnreadCount returns how many of the actor's notifications are unread.
func (s *Service) UnreadCount(actorID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", actorID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead flips is_read on all of the actor's unread notifications
// and returns how many were affected.
func (s *Service) MarkAllRead(actorID uint) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", actorID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// ClearAll deletes all of the actor's notifications and returns how
// many were deleted.
func (s *Service) ClearAll(actorID uint) (int64, error) {
	res := s.db.Where("recipient_id = ?", actorID).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
