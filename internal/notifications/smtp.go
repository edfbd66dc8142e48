package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gomail "gopkg.in/gomail.v2"
)

// Message is one fully addressed, subjected, and bodied outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message, returning a message identifier on success.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SMTPConfig holds the transport settings for the SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromAddr string
	FromName string
}

// SMTPSender delivers messages over SMTP. It fills the nodemailer role of the
// original storefront: a shared transport injected into the dispatcher.
type SMTPSender struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	newID  func() string
}

// NewSMTPSender constructs an SMTP sender validating required settings.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp sender: host is required")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("smtp sender: port is required")
	}
	if strings.TrimSpace(cfg.FromAddr) == "" {
		return nil, errors.New("smtp sender: from address is required")
	}

	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		newID:  uuid.NewString,
	}, nil
}

// Send delivers one message. The context is consulted before dialing; the
// SMTP dial itself is bounded only by transport-level timeouts.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if s == nil || s.dialer == nil {
		return "", errors.New("smtp sender: not initialised")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return "", errors.New("smtp sender: recipient is required")
	}

	id := s.newID()
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.FromAddr, s.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", id, s.cfg.Host))
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return id, nil
}

// Verify dials the SMTP server to confirm connectivity and credentials.
func (s *SMTPSender) Verify(ctx context.Context) error {
	if s == nil || s.dialer == nil {
		return errors.New("smtp sender: not initialised")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := s.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}
	return conn.Close()
}
