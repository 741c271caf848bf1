package payment

import (
	"encoding/json"
	"errors"
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrCourseNotFound is returned when the course is absent, unpublished or removed
	ErrCourseNotFound = errors.New("course not found or not published")
	// ErrCourseIsFree is returned when a payment is attempted on a free course
	ErrCourseIsFree = errors.New("course is free, enroll directly")
	// ErrInvalidAmount is returned when a client-echoed amount disagrees with the course price
	ErrInvalidAmount = errors.New("amount does not match the course price")
	// ErrAlreadyEnrolled is returned when the user already holds an enrollment
	ErrAlreadyEnrolled = errors.New("user already enrolled in this course")
	// ErrGateway is returned when the charge call to the gateway fails
	ErrGateway = errors.New("payment gateway request failed")
	// ErrIntentNotFound is returned when no intent matches the notification's order id
	ErrIntentNotFound = errors.New("payment not found")
	// ErrBadSignature is returned when a webhook payload fails signature verification
	ErrBadSignature = errors.New("invalid webhook signature")
)

// ChargeResult bundles the stored intent with the gateway URL the customer
// should be redirected to.
type ChargeResult struct {
	Payment    *models.Payment `json:"payment"`
	PaymentURL string          `json:"payment_url"`
}

// CreateIntent creates a pending payment for userID on courseID and opens a
// GoPay charge at the gateway. The amount is always the server-held course
// price; clientAmount, when the caller echoes one, must match it exactly and
// is otherwise ignored.
func CreateIntent(db *gorm.DB, userID, courseID uint, clientAmount *uint) (*ChargeResult, error) {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return nil, err
	}

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false AND status = ?", courseID, courseModels.CourseStatusPublished).First(&crs).Error; err != nil {
		return nil, ErrCourseNotFound
	}

	if crs.IsFree {
		return nil, ErrCourseIsFree
	}

	if clientAmount != nil && *clientAmount != crs.Price {
		return nil, ErrInvalidAmount
	}

	var existing courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyEnrolled
	}

	intent := models.Payment{
		UserID:   userID,
		CourseID: courseID,
		Amount:   crs.Price,
		OrderID:  utils.NewOrderID(userID),
		Status:   models.PaymentStatusPending,
	}
	if err := db.Create(&intent).Error; err != nil {
		return nil, err
	}

	charge, err := utils.ChargeGopay(intent.OrderID, intent.Amount, user.Name, user.Email)
	if err != nil {
		// The pending intent stays behind; the hourly sweep expires it if the
		// caller never retries.
		return nil, ErrGateway
	}

	updates := map[string]interface{}{
		"transaction_id": charge.TransactionID,
		"payment_type":   charge.PaymentType,
	}
	if err := db.Model(&intent).Updates(updates).Error; err != nil {
		return nil, err
	}
	intent.TransactionID = charge.TransactionID
	intent.PaymentType = charge.PaymentType

	return &ChargeResult{Payment: &intent, PaymentURL: charge.PaymentURL()}, nil
}

// mapNotificationStatus maps the gateway's transaction and fraud statuses to
// a payment status. Anything unrecognized leaves the intent pending.
func mapNotificationStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case utils.MidtransStatusCapture:
		if fraudStatus == utils.MidtransFraudAccept {
			return models.PaymentStatusSettlement
		}
		return models.PaymentStatusPending
	case utils.MidtransStatusSettlement:
		return models.PaymentStatusSettlement
	case utils.MidtransStatusCancel, utils.MidtransStatusDeny, utils.MidtransStatusExpire:
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}

// Reconcile applies a gateway notification to the matching intent. The
// signature is verified before anything is touched. Gateways deliver
// webhooks at least once, so every effect here is idempotent: a settlement
// redelivery is ignored, and the enrollment side effect treats a uniqueness
// conflict as success.
func Reconcile(db *gorm.DB, n *utils.MidtransNotification) (*models.Payment, error) {
	if !utils.VerifyMidtransSignature(n, config.AppConfig.MidtransServerKey) {
		return nil, ErrBadSignature
	}

	var intent models.Payment
	if err := db.Where("order_id = ?", n.OrderID).First(&intent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}

	// Terminal states are stable: a late or contradictory notification is
	// logged and ignored, never applied.
	if intent.Status != models.PaymentStatusPending {
		log.Printf("[PAYMENT] Ignoring notification for order %s: already %s (gateway sent %s)",
			n.OrderID, intent.Status, n.TransactionStatus)
		return &intent, nil
	}

	newStatus := mapNotificationStatus(n.TransactionStatus, n.FraudStatus)

	raw, _ := json.Marshal(n)
	updates := map[string]interface{}{
		"status":           newStatus,
		"raw_notification": datatypes.JSON(raw),
	}
	if n.TransactionID != "" {
		updates["transaction_id"] = n.TransactionID
	}

	// The status flip and the enrollment must commit together: if the intent
	// settled but the enrollment failed, the terminal-state guard would swallow
	// every redelivery and the paid user would never get in.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&intent).Updates(updates).Error; err != nil {
			return err
		}

		if newStatus == models.PaymentStatusSettlement {
			enrollment := courseModels.Enrollment{
				UserID:     intent.UserID,
				CourseID:   intent.CourseID,
				Progress:   0,
				EnrolledAt: time.Now(),
			}
			if err := tx.Create(&enrollment).Error; err != nil && !database.IsUniqueViolation(err) {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	intent.Status = newStatus

	return &intent, nil
}
