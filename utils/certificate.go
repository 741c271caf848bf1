package utils

import (
	"fmt"
	"lms/config"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateCertificateNumber mints a globally unique, human-readable
// certificate number, e.g. CERT-20260828-1A2B3C4D. Uniqueness is additionally
// enforced by the certificates table.
func GenerateCertificateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("CERT-%s-%s", time.Now().Format("20060102"), suffix)
}

// NewOrderID generates a unique gateway order reference for a payment intent
func NewOrderID(userID uint) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("ORDER-%d-%d-%s", time.Now().UnixMilli(), userID, suffix)
}

// CertificateVerificationURL builds the public page a scanned QR code lands on
func CertificateVerificationURL(certificateNumber string) string {
	return fmt.Sprintf("%s/certificate/verify/%s", config.AppConfig.AppBaseURL, certificateNumber)
}

// QRCodeURL returns an image URL rendering target as a scannable QR code.
// Rendering stays delegated to the external image API.
func QRCodeURL(target string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=400x400&data=" + url.QueryEscape(target)
}
