package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"stock-watchlist/config"
	"stock-watchlist/internal/dto"
	"stock-watchlist/pkg/logger"
)

// EmailSink delivers consolidated alerts over SMTP with STARTTLS.
type EmailSink struct {
	cfg config.EmailConfig
	log *logger.Logger

	// sendMail is swapped out in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailSink(cfg config.EmailConfig, log *logger.Logger) *EmailSink {
	return &EmailSink{
		cfg:      cfg,
		log:      log,
		sendMail: smtp.SendMail,
	}
}

func (s *EmailSink) Name() string {
	return "email"
}

func (s *EmailSink) Send(ctx context.Context, alerts []dto.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := consolidatedSubject(alerts)
	body := consolidatedBody(alerts)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.SenderEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", s.cfg.RecipientEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SenderEmail, s.cfg.SenderPassword, s.cfg.SMTPHost)

	if err := s.sendMail(addr, auth, s.cfg.SenderEmail, []string{s.cfg.RecipientEmail}, []byte(msg.String())); err != nil {
		s.log.ErrorContext(ctx, "Failed to send email notification", logger.ErrorField(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "Email notification sent",
		logger.StringField("recipient", s.cfg.RecipientEmail),
		logger.IntField("alert_count", len(alerts)))
	return nil
}
