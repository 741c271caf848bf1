package utils

import (
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler sets up the stale payment expiry scheduler
func InitializePaymentScheduler() {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	// Run hourly to fail pending intents the gateway has long since expired
	c.AddFunc("0 * * * *", func() {
		log.Println("[PAYMENT-SCHEDULER] Running stale payment sweep...")
		ExpireStalePayments()
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Payment scheduler started - runs hourly")
}

// ExpireStalePayments marks pending payments older than 24 hours as FAILED.
// Midtrans expires unpaid GoPay charges well inside this window, so a pending
// intent this old will never settle.
func ExpireStalePayments() {
	db := database.Database.Db
	cutoff := time.Now().Add(-24 * time.Hour)

	result := db.Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, cutoff).
		Update("status", models.PaymentStatusFailed)

	if result.Error != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error expiring payments: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[PAYMENT-SCHEDULER] Expired %d stale payments", result.RowsAffected)
	}
}
