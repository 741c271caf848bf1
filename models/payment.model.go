package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment statuses
const (
	PaymentStatusPending    = "PENDING"
	PaymentStatusSettlement = "SETTLEMENT"
	PaymentStatusFailed     = "FAILED"
)

// Payment represents a payment intent created before redirecting the user to
// the gateway's hosted checkout. Amount, user and course are immutable after
// creation; only the webhook handler moves the status.
type Payment struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	CourseID        uint           `json:"course_id" gorm:"index;not null"`
	Amount          uint           `json:"amount" gorm:"not null"`
	OrderID         string         `json:"order_id" gorm:"uniqueIndex;not null"` // our reference at the gateway
	TransactionID   string         `json:"transaction_id"`                       // gateway reference, set after charge
	PaymentType     string         `json:"payment_type"`
	Status          string         `json:"status" gorm:"default:'PENDING'"` // PENDING, SETTLEMENT, FAILED
	RawNotification datatypes.JSON `json:"raw_notification"`                // last gateway notification, kept for audit
	IsDeleted       bool           `gorm:"default:false"`
}
