package paymentController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	paymentService "lms/services/payment"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

// CreatePayment opens a payment intent for a paid course and returns the
// gateway URL the customer should be sent to.
func CreatePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedPayment").(*struct {
		CourseID uint  `json:"course_id" validate:"required,min=1"`
		Amount   *uint `json:"amount"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := paymentService.CreateIntent(database.Database.Db, userID, reqData.CourseID, reqData.Amount)
	if err != nil {
		switch {
		case errors.Is(err, paymentService.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
		case errors.Is(err, paymentService.ErrCourseIsFree):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is free, enroll directly!", nil)
		case errors.Is(err, paymentService.ErrInvalidAmount):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Amount does not match the course price!", nil)
		case errors.Is(err, paymentService.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		case errors.Is(err, paymentService.ErrGateway):
			// Upstream failure, distinct from validation so the caller can retry
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway is unavailable, please try again!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment created successfully!", fiber.Map{
		"order_id":       result.Payment.OrderID,
		"transaction_id": result.Payment.TransactionID,
		"amount":         result.Payment.Amount,
		"payment_url":    result.PaymentURL,
	})
}

// PaymentWebhook receives transaction status notifications from the gateway.
// The gateway retries delivery until it sees a 2xx, so reconciliation is
// idempotent and a repeat notification still answers 200.
func PaymentWebhook(c *fiber.Ctx) error {
	var notification utils.MidtransNotification
	if err := c.BodyParser(&notification); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification payload!", nil)
	}

	if notification.OrderID == "" || notification.TransactionStatus == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification payload!", nil)
	}

	intent, err := paymentService.Reconcile(database.Database.Db, &notification)
	if err != nil {
		switch {
		case errors.Is(err, paymentService.ErrBadSignature):
			log.Printf("[PAYMENT] Rejected webhook with bad signature for order %s", notification.OrderID)
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Invalid signature!", nil)
		case errors.Is(err, paymentService.ErrIntentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
		default:
			log.Printf("[PAYMENT] Webhook reconciliation failed for order %s: %v", notification.OrderID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process notification!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification processed!", fiber.Map{
		"order_id": intent.OrderID,
		"status":   intent.Status,
	})
}

// GetPaymentStatus returns the caller's payment intent by order id, for the
// "waiting for payment" page to poll.
func GetPaymentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	orderID := c.Locals("orderID").(string)

	var intent models.Payment
	if err := database.Database.Db.Where("order_id = ? AND user_id = ? AND is_deleted = false", orderID, userID).First(&intent).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment fetched successfully!", intent)
}

// AdminListPayments lists payments with pagination for reconciliation review
func AdminListPayments(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPaymentList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Payment{}).Where("is_deleted = false")

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var payments []models.Payment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	response := map[string]interface{}{
		"payments": payments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", response)
}
