package worker

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/aarogya-webinar/backend/config"
	"github.com/aarogya-webinar/backend/pkg/queue"
)

// Sender delivers a booking confirmation to the customer.
type Sender interface {
	SendConfirmation(ctx context.Context, payload queue.ConfirmationPayload) error
}

// SMTPSender sends confirmation emails over plain SMTP.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// SendConfirmation sends the confirmation email with session details and the
// WhatsApp group invite link.
func (s *SMTPSender) SendConfirmation(_ context.Context, payload queue.ConfirmationPayload) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromAddress)
	fmt.Fprintf(&body, "To: %s\r\n", payload.RecipientEmail)
	fmt.Fprintf(&body, "Subject: Your booking is confirmed\r\n")
	fmt.Fprintf(&body, "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", payload.RecipientName)
	fmt.Fprintf(&body, "Your %s session on %s is confirmed.\r\n", payload.SessionType, payload.ScheduledAt.Format("Mon, 02 Jan 2006 15:04 MST"))
	if payload.WhatsAppGroupLink != "" {
		fmt.Fprintf(&body, "\r\nJoin the WhatsApp group here: %s\r\n", payload.WhatsAppGroupLink)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{payload.RecipientEmail}, []byte(body.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender logs confirmations instead of sending them. Used when SMTP is
// not configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// SendConfirmation logs the confirmation.
func (s *LogSender) SendConfirmation(_ context.Context, payload queue.ConfirmationPayload) error {
	s.logger.Info("confirmation (smtp disabled)",
		zap.String("booking_id", payload.BookingID.String()),
		zap.String("recipient", payload.RecipientEmail),
		zap.Time("scheduled_at", payload.ScheduledAt))
	return nil
}
