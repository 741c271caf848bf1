package utils

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signedNotification(serverKey string) *MidtransNotification {
	n := &MidtransNotification{
		OrderID:           "ORDER-1700000000000-7-abc123",
		TransactionStatus: MidtransStatusSettlement,
		StatusCode:        "200",
		GrossAmount:       "150000.00",
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	n.SignatureKey = hex.EncodeToString(sum[:])
	return n
}

func TestVerifyMidtransSignature(t *testing.T) {
	n := signedNotification("server-key")
	assert.True(t, VerifyMidtransSignature(n, "server-key"))
}

func TestVerifyMidtransSignatureWrongKey(t *testing.T) {
	n := signedNotification("server-key")
	assert.False(t, VerifyMidtransSignature(n, "other-key"))
}

func TestVerifyMidtransSignatureTamperedAmount(t *testing.T) {
	n := signedNotification("server-key")
	n.GrossAmount = "1.00"
	assert.False(t, VerifyMidtransSignature(n, "server-key"))
}

func TestVerifyMidtransSignatureTruncated(t *testing.T) {
	n := signedNotification("server-key")
	n.SignatureKey = n.SignatureKey[:64]
	assert.False(t, VerifyMidtransSignature(n, "server-key"))
}

func TestVerifyMidtransSignatureEmpty(t *testing.T) {
	n := signedNotification("server-key")
	n.SignatureKey = ""
	assert.False(t, VerifyMidtransSignature(n, "server-key"))
}

func TestPaymentURLPrefersQRAction(t *testing.T) {
	resp := &MidtransChargeResponse{
		RedirectURL: "https://gateway.test/redirect",
		Actions: []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		}{
			{Name: "deeplink-redirect", URL: "gojek://gopay/merchanttransfer"},
			{Name: "generate-qr-code", URL: "https://gateway.test/qr/txn-1"},
		},
	}
	assert.Equal(t, "https://gateway.test/qr/txn-1", resp.PaymentURL())
}

func TestPaymentURLFallsBackToRedirect(t *testing.T) {
	resp := &MidtransChargeResponse{RedirectURL: "https://gateway.test/redirect"}
	assert.Equal(t, "https://gateway.test/redirect", resp.PaymentURL())
}
