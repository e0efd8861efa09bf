package utils

import (
	"fmt"
	"log/slog"

	"github.com/keighl/postmark"

	"peakgear/models"
)

// EmailService sends transactional email through Postmark. With no API
// token configured the service runs disabled and only logs, so local
// development works without credentials.
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService builds an EmailService; token may be empty
func NewEmailService(token, sender string) *EmailService {
	es := &EmailService{sender: sender}
	if token == "" {
		slog.Warn("POSTMARK_API_TOKEN not set, outgoing email disabled")
		return es
	}
	es.client = postmark.NewClient(token, "")
	return es
}

// SendEmail sends one email to the given recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlBody, textBody string) error {
	if es.client == nil {
		slog.Info("email disabled, skipping send", "to", toEmail, "subject", subject)
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWelcomeEmail greets a newly registered user
func (es *EmailService) SendWelcomeEmail(toEmail, firstName string) error {
	if firstName == "" {
		firstName = "there"
	}
	subject := "Welcome to Peak Gear TO!"
	html := fmt.Sprintf(
		"<h2>Welcome, %s!</h2><p>Thank you for joining Peak Gear TO, your destination for outdoor equipment rentals in the Greater Toronto Area.</p><p>You're now ready to browse our roof boxes and bike carriers, book equipment for your next adventure, and enjoy convenient delivery and pickup options.</p><p>Happy adventuring!<br>The Peak Gear TO Team</p>",
		firstName,
	)
	text := fmt.Sprintf(
		"Welcome, %s!\n\nThank you for joining Peak Gear TO. You're now ready to browse our roof boxes and bike carriers and book equipment for your next adventure.\n\nHappy adventuring!\nThe Peak Gear TO Team\n",
		firstName,
	)
	return es.SendEmail(toEmail, subject, html, text)
}

// SendPasswordResetEmail sends the reset link; the link expires in one hour
func (es *EmailService) SendPasswordResetEmail(toEmail, resetURL string) error {
	subject := "Reset Your Password - Peak Gear TO"
	html := fmt.Sprintf(
		"<h2>Reset Your Password</h2><p>We received a request to reset the password for your Peak Gear TO account. Click the link below to reset it:</p><p><a href=\"%s\">Reset My Password</a></p><p><strong>Important:</strong> this link expires in 1 hour.</p><p>If you didn't request a password reset, you can safely ignore this email.</p>",
		resetURL,
	)
	text := fmt.Sprintf(
		"Reset Your Password\n\nWe received a request to reset the password for your Peak Gear TO account.\n\nTo reset your password, visit:\n%s\n\nThis link expires in 1 hour. If you didn't request a reset, ignore this email.\n",
		resetURL,
	)
	return es.SendEmail(toEmail, subject, html, text)
}

// SendBookingConfirmationEmail confirms a paid booking
func (es *EmailService) SendBookingConfirmationEmail(toEmail, firstName, productName string, booking models.Booking) error {
	if firstName == "" {
		firstName = "Customer"
	}
	subject := "Booking Confirmed - Peak Gear TO"
	html := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your booking (ID: %s) for <strong>%s</strong> is confirmed for %s to %s.</p><p>Total (rental + delivery): <strong>$%s</strong></p><p>Thank you for choosing Peak Gear TO!</p>",
		firstName, booking.ID, productName, booking.StartDate, booking.EndDate, booking.TotalCost,
	)
	text := fmt.Sprintf(
		"Dear %s,\n\nYour booking (ID: %s) for %s is confirmed for %s to %s.\nTotal (rental + delivery): $%s\n\nThank you for choosing Peak Gear TO!\n",
		firstName, booking.ID, productName, booking.StartDate, booking.EndDate, booking.TotalCost,
	)
	return es.SendEmail(toEmail, subject, html, text)
}
