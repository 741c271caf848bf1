package utils

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// Midtrans transaction statuses as delivered in charge responses and webhook
// notifications.
const (
	MidtransStatusCapture    = "capture"
	MidtransStatusSettlement = "settlement"
	MidtransStatusCancel     = "cancel"
	MidtransStatusDeny       = "deny"
	MidtransStatusExpire     = "expire"

	MidtransFraudAccept = "accept"
)

// MidtransChargeResponse is the subset of the charge response we act on; the
// rest of the payload is treated as opaque.
type MidtransChargeResponse struct {
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	PaymentType       string `json:"payment_type"`
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message"`
	RedirectURL       string `json:"redirect_url"`
	Actions           []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"actions"`
}

// PaymentURL picks the URL the customer should be sent to: the QR code action
// for GoPay charges, otherwise the generic redirect.
func (r *MidtransChargeResponse) PaymentURL() string {
	for _, a := range r.Actions {
		if a.Name == "generate-qr-code" {
			return a.URL
		}
	}
	return r.RedirectURL
}

// MidtransNotification is the webhook payload for a transaction status change.
type MidtransNotification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	SignatureKey      string `json:"signature_key"`
}

// VerifyMidtransSignature checks the notification's signature_key against
// sha512(order_id + status_code + gross_amount + server_key). A webhook that
// fails this check must not mutate anything.
func VerifyMidtransSignature(n *MidtransNotification, serverKey string) bool {
	if n.SignatureKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// ChargeGopay creates a GoPay charge at Midtrans for the given order
func ChargeGopay(orderID string, grossAmount uint, customerName, customerEmail string) (*MidtransChargeResponse, error) {
	payload := map[string]interface{}{
		"payment_type": "gopay",
		"transaction_details": map[string]interface{}{
			"order_id":     orderID,
			"gross_amount": grossAmount,
		},
		"customer_details": map[string]interface{}{
			"first_name": customerName,
			"email":      customerEmail,
		},
	}

	basicAuth := base64.StdEncoding.EncodeToString([]byte(config.AppConfig.MidtransServerKey + ":"))

	client := resty.New()
	resp, err := client.R().
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Basic "+basicAuth).
		SetBody(payload).
		Post(config.AppConfig.MidtransBaseURL + "/v2/charge")
	if err != nil {
		log.Printf("[MIDTRANS] Charge request failed for order %s: %v", orderID, err)
		return nil, err
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		log.Printf("[MIDTRANS] Charge rejected for order %s: %s", orderID, resp.String())
		return nil, fmt.Errorf("midtrans charge failed with status %d", resp.StatusCode())
	}

	var charge MidtransChargeResponse
	if err := json.Unmarshal(resp.Body(), &charge); err != nil {
		log.Printf("[MIDTRANS] Failed to parse charge response for order %s: %v", orderID, err)
		return nil, err
	}

	return &charge, nil
}
