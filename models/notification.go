package models

import "time"

// Notification belongs to exactly one recipient. Rows are created only
// by the status-change fan-out, mutated only to flip IsRead, and
// deleted only by the recipient's bulk clear.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"not null;index"`
	Recipient   User      `json:"-" gorm:"foreignKey:RecipientID"`
	Message     string    `json:"message" gorm:"not null"`
	IsRead      bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
}
