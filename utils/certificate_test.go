package utils

import (
	"lms/config"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCertificateNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^CERT-\d{8}-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := GenerateCertificateNumber()
		assert.Regexp(t, pattern, number)
		assert.False(t, seen[number], "duplicate certificate number %s", number)
		seen[number] = true
	}
}

func TestCertificateVerificationURL(t *testing.T) {
	config.AppConfig = &config.Config{AppBaseURL: "https://learn.example.com"}

	url := CertificateVerificationURL("CERT-20260828-1A2B3C4D")
	assert.Equal(t, "https://learn.example.com/certificate/verify/CERT-20260828-1A2B3C4D", url)
}

func TestQRCodeURLEscapesTarget(t *testing.T) {
	url := QRCodeURL("https://learn.example.com/certificate/verify/CERT-20260828-1A2B3C4D")
	assert.Contains(t, url, "api.qrserver.com")
	assert.Contains(t, url, "data=https%3A%2F%2Flearn.example.com%2Fcertificate%2Fverify%2FCERT-20260828-1A2B3C4D")
}
