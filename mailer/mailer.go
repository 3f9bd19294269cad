package mailer

import (
	"fmt"
	"net/smtp"
	"os"
)

// Send delivers a plain-text email through the configured SMTP relay.
func Send(toEmail, subject, body string) error {
	from := os.Getenv("SMTP_FROM")
	pass := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	if smtpPort == "" {
		smtpPort = "587"
	}
	if from == "" {
		return fmt.Errorf("SMTP_FROM not configured")
	}

	msg := []byte("To: " + toEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	auth := smtp.PlainAuth("", from, pass, smtpHost)
	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{toEmail}, msg)
}

// SendWelcome mails a freshly created account its temporary password.
func SendWelcome(toEmail, name, tempPassword string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nAn account has been created for you.\nTemporary password: %s\n\nPlease sign in and change it on first login.\n",
		name, tempPassword)
	return Send(toEmail, "Your account is ready", body)
}
