package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"strings"
)

// EmailData fills the HTML mail templates under templates/. ActionURL
// is the activation or reset link the message points the user at.
type EmailData struct {
	Name      string
	Message   string
	ActionURL string
}

// SendEmail renders templatePath with data and delivers it over SMTP
// to every recipient in one message. SMTP settings come from the
// environment: FROM_EMAIL, FROM_EMAIL_PASSWORD, FROM_EMAIL_SMTP and
// SMTP_ADDRESS.
func SendEmail(recipients []string, subject string, data EmailData, templatePath string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients given")
	}

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	from := os.Getenv("FROM_EMAIL")

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: Sokoline <%s>\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n")
	msg.Write(body.Bytes())

	auth := smtp.PlainAuth("", from, os.Getenv("FROM_EMAIL_PASSWORD"), os.Getenv("FROM_EMAIL_SMTP"))

	if err := smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, from, recipients, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
