// backend/src/services/email_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/username/shipflow/backend/src/config"
	"github.com/username/shipflow/backend/src/logger"
)

func NewEmailService() EmailService {
	if config.Cfg == nil {
		slog.Error("Configuration (config.Cfg) is nil. Email service will default to mock.")
		return &MockEmailService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
		}
	case "smtp":
		if config.Cfg.SMTPServer == "" || config.Cfg.SMTPUser == "" || config.Cfg.SMTPPassword == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("SMTP configuration incomplete. Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		return &SMTPEmailService{
			SMTPServer:   config.Cfg.SMTPServer,
			SMTPPort:     config.Cfg.SMTPPort,
			SMTPUser:     config.Cfg.SMTPUser,
			SMTPPassword: config.Cfg.SMTPPassword,
			SenderEmail:  config.Cfg.SenderEmail,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

type SMTPEmailService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

func (s *SMTPEmailService) send(toEmail, subject, body string) error {
	header := map[string]string{
		"From":         s.SenderEmail,
		"To":           toEmail,
		"Subject":      subject,
		"MIME-version": "1.0",
		"Content-Type": "text/plain; charset=\"UTF-8\"",
	}
	message := ""
	for k, v := range header {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.SenderEmail, []string{toEmail}, []byte(message)); err != nil {
		logger.L.Error("Failed to send email via SMTP", "error", err, "to", toEmail, "subject", subject)
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	logger.L.Info("Email sent successfully via SMTP", "to", toEmail, "subject", subject)
	return nil
}

func (s *SMTPEmailService) SendWaybillCreated(toEmail, awbNo, reference string) error {
	subject := fmt.Sprintf("Waybill %s created", awbNo)
	body := fmt.Sprintf(`A new waybill has been created.

AWB No: %s
Reference: %s

The shipping label is available for download from the Shipflow backend.`, awbNo, reference)
	return s.send(toEmail, subject, body)
}

func (s *SMTPEmailService) SendBulkSummary(toEmail, batchID string, created, failed int) error {
	subject := "Bulk waybill upload processed"
	body := fmt.Sprintf(`Your bulk waybill upload has been processed.

Batch: %s
Waybills created: %d
Rows skipped: %d`, batchID, created, failed)
	return s.send(toEmail, subject, body)
}

type MailgunEmailService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunEmailService) send(toEmail, subject, body, tag string) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)

	message := s.mg.NewMessage(from, subject, body, toEmail)
	if tag != "" {
		message.AddTag(tag)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()
	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send email via Mailgun", "error", err, "to", toEmail, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Email sent successfully via Mailgun", "to", toEmail, "id", id, "subject", subject)
	return nil
}

func (s *MailgunEmailService) SendWaybillCreated(toEmail, awbNo, reference string) error {
	subject := fmt.Sprintf("Waybill %s created", awbNo)
	body := fmt.Sprintf(`A new waybill has been created.

AWB No: %s
Reference: %s

The shipping label is available for download from the Shipflow backend.`, awbNo, reference)
	return s.send(toEmail, subject, body, "waybill-created")
}

func (s *MailgunEmailService) SendBulkSummary(toEmail, batchID string, created, failed int) error {
	subject := "Bulk waybill upload processed"
	body := fmt.Sprintf(`Your bulk waybill upload has been processed.

Batch: %s
Waybills created: %d
Rows skipped: %d`, batchID, created, failed)
	return s.send(toEmail, subject, body, "bulk-summary")
}

type MockEmailService struct{}

func (m *MockEmailService) SendWaybillCreated(toEmail, awbNo, reference string) error {
	logger.L.Info("MockEmailService: Would send waybill created email.", "to", toEmail, "awbNo", awbNo, "reference", reference)
	return nil
}

func (m *MockEmailService) SendBulkSummary(toEmail, batchID string, created, failed int) error {
	logger.L.Info("MockEmailService: Would send bulk summary email.", "to", toEmail, "batchId", batchID, "created", created, "failed", failed)
	return nil
}
