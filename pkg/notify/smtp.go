package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends the message through an authenticated SMTP relay.
type SMTPNotifier struct {
	addr     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:     smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		sendMail: smtp.SendMail,
	}
}

// Notify ignores ctx: net/smtp has no cancellation.
func (s *SMTPNotifier) Notify(_ context.Context, msg Message) error {
	if err := s.sendMail(s.addr, s.auth, msg.From, msg.To, msg.Raw()); err != nil {
		return fmt.Errorf("smtp send to %v: %w", msg.To, err)
	}

	zap.L().Info("Enquiry email sent",
		zap.Int64("enquiryId", msg.EnquiryID),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
