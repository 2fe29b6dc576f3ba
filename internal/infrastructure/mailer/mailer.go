package mailer

import (
	"context"
	"fmt"
	"time"

	"credify-backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Dialer is the part of gomail.Dialer used for delivery.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	if from == "" {
		from = user
	}
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func otpBody(code string, expiresAt time.Time) string {
	return fmt.Sprintf("Your Credify verification code is %s.\n\nIt expires at %s. If you did not try to sign in, ignore this email.",
		code, expiresAt.Format("15:04 MST"))
}

func (s *SMTPSender) SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your Credify login code")
	m.SetBody("text/plain", otpBody(code, expiresAt))

	if err := s.dialer.DialAndSend(m); err != nil {
		logger.Error(ctx, "otp email failed", zap.String("email", email), zap.Error(err))
		return err
	}
	logger.Info(ctx, "otp email sent", zap.String("email", email))
	return nil
}

// LogSender writes codes to the log. Used when SMTP is not configured.
type LogSender struct{}

func (LogSender) SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	logger.Warn(ctx, "smtp not configured, otp logged instead",
		zap.String("email", email), zap.String("code", code), zap.Time("expires_at", expiresAt))
	return nil
}
