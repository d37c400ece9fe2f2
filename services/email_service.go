package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/emilianozm24/baloncesto-api/config"
)

// Mailer is the outbound-notification boundary. Implemented over SMTP
// in production and faked in tests.
type Mailer interface {
	SendConfirmationEmail(email, name, token string) error
	SendPasswordResetEmail(email, name, token string) error
}

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Implicit TLS.
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		// STARTTLS, typically port 587.
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return nil
}

func (s *EmailService) generateEmailBody(templatePath string, data interface{}) (string, error) {
	t, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templatePath, err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}

	return body.String(), nil
}

func (s *EmailService) SendConfirmationEmail(email, name, token string) error {
	subject := "Confirma tu cuenta"
	data := struct {
		Name            string
		Token           string
		ConfirmationURL string
	}{
		Name:            name,
		Token:           token,
		ConfirmationURL: fmt.Sprintf("%s/confirm-account", s.cfg.PublicURL),
	}

	htmlBody, err := s.generateEmailBody("templates/emails/confirm_account.html", data)
	if err != nil {
		return err
	}
	return s.SendEmail([]string{email}, subject, htmlBody)
}

func (s *EmailService) SendPasswordResetEmail(email, name, token string) error {
	subject := "Restablece tu contraseña"
	data := struct {
		Name     string
		Token    string
		ResetURL string
	}{
		Name:     name,
		Token:    token,
		ResetURL: fmt.Sprintf("%s/new-password", s.cfg.PublicURL),
	}

	htmlBody, err := s.generateEmailBody("templates/emails/password_reset.html", data)
	if err != nil {
		return err
	}
	return s.SendEmail([]string{email}, subject, htmlBody)
}
