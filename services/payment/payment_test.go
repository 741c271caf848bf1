package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"lms/config"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testServerKey = "test-server-key"

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		AppBaseURL:        "https://learn.example.com",
		MidtransServerKey: testServerKey,
	}
	m.Run()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Keep the in-memory database alive on a single connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&courseModels.Category{},
		&courseModels.Course{},
		&courseModels.Episode{},
		&courseModels.Enrollment{},
		&courseModels.EpisodeProgress{},
		&courseModels.Certificate{},
	))

	return db
}

func seedPaidCourse(t *testing.T, db *gorm.DB, price uint) (models.User, courseModels.Course) {
	t.Helper()

	user := models.User{Name: "Budi Santoso", Email: "budi@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{
		Title:        "Belajar Go",
		InstructorID: 1,
		Price:        price,
		Status:       courseModels.CourseStatusPublished,
	}
	require.NoError(t, db.Create(&course).Error)

	return user, course
}

// newGatewayStub fakes the Midtrans charge endpoint and records the gross
// amount each charge was created with.
func newGatewayStub(t *testing.T, grossAmounts *[]uint) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			TransactionDetails struct {
				OrderID     string `json:"order_id"`
				GrossAmount uint   `json:"gross_amount"`
			} `json:"transaction_details"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		*grossAmounts = append(*grossAmounts, req.TransactionDetails.GrossAmount)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"transaction_id":"txn-123","payment_type":"gopay","status_code":"201","actions":[{"name":"generate-qr-code","url":"https://gateway.test/qr/txn-123"}]}`)
	}))
	t.Cleanup(srv.Close)

	config.AppConfig.MidtransBaseURL = srv.URL
	return srv
}

func signNotification(n *utils.MidtransNotification) {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + testServerKey))
	n.SignatureKey = hex.EncodeToString(sum[:])
}

func seedPendingIntent(t *testing.T, db *gorm.DB, user models.User, course courseModels.Course) models.Payment {
	t.Helper()

	intent := models.Payment{
		UserID:   user.ID,
		CourseID: course.ID,
		Amount:   course.Price,
		OrderID:  utils.NewOrderID(user.ID),
		Status:   models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&intent).Error)
	return intent
}

func settlementNotification(orderID string, amount uint) *utils.MidtransNotification {
	n := &utils.MidtransNotification{
		OrderID:           orderID,
		TransactionID:     "txn-123",
		TransactionStatus: utils.MidtransStatusSettlement,
		StatusCode:        "200",
		GrossAmount:       fmt.Sprintf("%d.00", amount),
	}
	signNotification(n)
	return n
}

func TestCreateIntentUsesServerHeldPrice(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)

	var grossAmounts []uint
	newGatewayStub(t, &grossAmounts)

	result, err := CreateIntent(db, user.ID, course.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, uint(150000), result.Payment.Amount)
	assert.Equal(t, "txn-123", result.Payment.TransactionID)
	assert.Equal(t, "gopay", result.Payment.PaymentType)
	assert.Equal(t, "https://gateway.test/qr/txn-123", result.PaymentURL)
	require.Len(t, grossAmounts, 1)
	assert.Equal(t, uint(150000), grossAmounts[0])
}

func TestCreateIntentRejectsMismatchedClientAmount(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)

	wrong := uint(1)
	_, err := CreateIntent(db, user.ID, course.ID, &wrong)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	var count int64
	db.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateIntentAcceptsMatchingClientAmount(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)

	var grossAmounts []uint
	newGatewayStub(t, &grossAmounts)

	echoed := uint(150000)
	result, err := CreateIntent(db, user.ID, course.ID, &echoed)
	require.NoError(t, err)
	assert.Equal(t, uint(150000), result.Payment.Amount)
}

func TestCreateIntentRejectsFreeCourse(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 0)
	require.NoError(t, db.Model(&course).Updates(map[string]interface{}{"is_free": true, "price": 0}).Error)

	_, err := CreateIntent(db, user.ID, course.ID, nil)
	assert.ErrorIs(t, err, ErrCourseIsFree)
}

func TestCreateIntentRejectsExistingEnrollment(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID:     user.ID,
		CourseID:   course.ID,
		EnrolledAt: time.Now(),
	}).Error)

	_, err := CreateIntent(db, user.ID, course.ID, nil)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestCreateIntentGatewayFailureKeepsPendingIntent(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	config.AppConfig.MidtransBaseURL = srv.URL

	_, err := CreateIntent(db, user.ID, course.ID, nil)
	assert.ErrorIs(t, err, ErrGateway)

	// The intent stays behind for the expiry sweep
	var count int64
	db.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusPending).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcileSettlementCreatesEnrollment(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)
	intent := seedPendingIntent(t, db, user, course)

	updated, err := Reconcile(db, settlementNotification(intent.OrderID, intent.Amount))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSettlement, updated.Status)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 0, enrollment.Progress)
}

func TestReconcileIsIdempotentAcrossRedelivery(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)
	intent := seedPendingIntent(t, db, user, course)

	notification := settlementNotification(intent.OrderID, intent.Amount)

	_, err := Reconcile(db, notification)
	require.NoError(t, err)
	redelivered, err := Reconcile(db, notification)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusSettlement, redelivered.Status)

	var count int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcileRedeliveryAfterPartialFailure(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)
	intent := seedPendingIntent(t, db, user, course)

	notification := settlementNotification(intent.OrderID, intent.Amount)

	// First delivery fails mid-way: the enrollment insert errors out, so the
	// status flip must roll back with it
	require.NoError(t, db.Migrator().DropTable(&courseModels.Enrollment{}))
	_, err := Reconcile(db, notification)
	require.Error(t, err)

	var stored models.Payment
	require.NoError(t, db.Where("order_id = ?", intent.OrderID).First(&stored).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)

	// The gateway redelivers once the transient fault clears
	require.NoError(t, db.AutoMigrate(&courseModels.Enrollment{}))
	updated, err := Reconcile(db, notification)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSettlement, updated.Status)

	var count int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcileLeavesTerminalFailedIntentAlone(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)
	intent := seedPendingIntent(t, db, user, course)
	require.NoError(t, db.Model(&intent).Update("status", models.PaymentStatusFailed).Error)

	// A contradictory settlement after failure is logged and ignored
	updated, err := Reconcile(db, settlementNotification(intent.OrderID, intent.Amount))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, updated.Status)

	var count int64
	db.Model(&courseModels.Enrollment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReconcileRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)
	intent := seedPendingIntent(t, db, user, course)

	notification := settlementNotification(intent.OrderID, intent.Amount)
	notification.SignatureKey = "forged"

	_, err := Reconcile(db, notification)
	assert.ErrorIs(t, err, ErrBadSignature)

	var stored models.Payment
	require.NoError(t, db.Where("order_id = ?", intent.OrderID).First(&stored).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestReconcileCaptureStatuses(t *testing.T) {
	db := newTestDB(t)
	user, course := seedPaidCourse(t, db, 150000)

	// capture + accept settles
	accepted := seedPendingIntent(t, db, user, course)
	n := &utils.MidtransNotification{
		OrderID:           accepted.OrderID,
		TransactionStatus: utils.MidtransStatusCapture,
		FraudStatus:       utils.MidtransFraudAccept,
		StatusCode:        "200",
		GrossAmount:       "150000.00",
	}
	signNotification(n)
	updated, err := Reconcile(db, n)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSettlement, updated.Status)

	// capture + challenge stays pending
	other := models.User{Name: "Siti", Email: "siti@example.com", Password: "x"}
	require.NoError(t, db.Create(&other).Error)
	challenged := seedPendingIntent(t, db, other, course)
	n = &utils.MidtransNotification{
		OrderID:           challenged.OrderID,
		TransactionStatus: utils.MidtransStatusCapture,
		FraudStatus:       "challenge",
		StatusCode:        "201",
		GrossAmount:       "150000.00",
	}
	signNotification(n)
	updated, err = Reconcile(db, n)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, updated.Status)

	var count int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ?", other.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReconcileFailureStatuses(t *testing.T) {
	for _, status := range []string{utils.MidtransStatusCancel, utils.MidtransStatusDeny, utils.MidtransStatusExpire} {
		t.Run(status, func(t *testing.T) {
			db := newTestDB(t)
			user, course := seedPaidCourse(t, db, 150000)
			intent := seedPendingIntent(t, db, user, course)

			n := &utils.MidtransNotification{
				OrderID:           intent.OrderID,
				TransactionStatus: status,
				StatusCode:        "202",
				GrossAmount:       "150000.00",
			}
			signNotification(n)

			updated, err := Reconcile(db, n)
			require.NoError(t, err)
			assert.Equal(t, models.PaymentStatusFailed, updated.Status)

			var count int64
			db.Model(&courseModels.Enrollment{}).Count(&count)
			assert.Equal(t, int64(0), count)
		})
	}
}

func TestReconcileUnknownOrder(t *testing.T) {
	db := newTestDB(t)

	n := &utils.MidtransNotification{
		OrderID:           "ORDER-unknown",
		TransactionStatus: utils.MidtransStatusSettlement,
		StatusCode:        "200",
		GrossAmount:       "150000.00",
	}
	signNotification(n)

	_, err := Reconcile(db, n)
	assert.ErrorIs(t, err, ErrIntentNotFound)
}
