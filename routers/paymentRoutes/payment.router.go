package paymentRoutes

import (
	paymentController "lms/controllers/payment"
	"lms/middleware"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up payment creation, polling and webhook routes
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/create", middleware.JWTMiddleware, paymentValidator.CreatePayment(), paymentController.CreatePayment)
	paymentGroup.Get("/status/:order_id", middleware.JWTMiddleware, paymentValidator.PaymentStatus(), paymentController.GetPaymentStatus)

	// Gateway webhook; authenticated by payload signature, not by a user token
	paymentGroup.Post("/webhook", paymentController.PaymentWebhook)

	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireAdmin)
	adminGroup.Get("/payments", paymentValidator.PaymentList(), paymentController.AdminListPayments)
}
