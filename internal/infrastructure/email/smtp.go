package email

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/orris-inc/helpdesk/internal/shared/config"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils/logutil"
)

// Message is one outgoing email with a plain text body and an HTML alternative.
type Message struct {
	To        []string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

// NewSender returns an SMTP sender when email is enabled and configured, otherwise a logging no-op.
func NewSender(cfg config.EmailConfig, log logger.Interface) Sender {
	if !cfg.Enabled || cfg.SMTPHost == "" {
		log.Infow("email delivery disabled, notifications will only be logged")
		return NewNopSender(log)
	}

	log.Infow("email service initialized",
		"host", cfg.SMTPHost,
		"port", cfg.SMTPPort,
		"from", cfg.FromAddress,
	)
	return NewSMTPEmailService(SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	})
}

// Send dials the SMTP server per message. gomail has no context support, so ctx is only
// checked before dialing.
func (s *SMTPEmailService) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// NopSender logs messages instead of sending them.
type NopSender struct {
	logger logger.Interface
}

func NewNopSender(log logger.Interface) *NopSender {
	return &NopSender{logger: log}
}

func (s *NopSender) Send(_ context.Context, msg Message) error {
	masked := make([]string, len(msg.To))
	for i, to := range msg.To {
		masked[i] = logutil.MaskEmail(to)
	}
	s.logger.Infow("email suppressed",
		"to", strings.Join(masked, ","),
		"subject", msg.Subject,
	)
	return nil
}
