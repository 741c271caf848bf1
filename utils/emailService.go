package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid. Delivery is best-effort;
// callers fire it from a goroutine and never fail their request on an email
// error.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendgridApiKey == "" {
		log.Printf("[EMAIL] SENDGRID_API_KEY not set, skipping email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail("Course Platform", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("[EMAIL] SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	return nil
}

// SendCertificateIssuedEmail congratulates a learner on their new certificate
// and links the public verification page.
func SendCertificateIssuedEmail(email, name, courseTitle, certificateNumber, verificationURL string) {
	subject := "Your Course Certificate is Ready!"
	body := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Certificate Issued</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">Congratulations, ` + name + `!</h2>
        <p>You have completed <strong>` + courseTitle + `</strong> and your certificate has been issued.</p>
        <p>Certificate number: <strong>` + certificateNumber + `</strong></p>
        <div style="margin: 30px 0;">
            <a href="` + verificationURL + `" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">View Certificate</a>
        </div>
        <p>Anyone can verify this certificate by visiting the link above or scanning the QR code on the certificate.</p>
        <hr style="border: 1px solid #eee; margin: 20px 0;">
        <p style="font-size: 12px; color: #666;">This is an automated notification.</p>
    </div>
</body>
</html>`

	go SendEmail(email, name, subject, body)
}
