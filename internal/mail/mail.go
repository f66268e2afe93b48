package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Transport is the optional mail delivery capability.
type Transport interface {
	Send(subject, body string) error
}

// Config holds SMTP settings. Sender doubles as the auth identity.
type Config struct {
	Sender    string
	Password  string
	Recipient string
	Host      string
	Port      int
}

// SMTP sends plain-text mail over SMTP with STARTTLS.
type SMTP struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP creates an SMTP transport, or nil when the configuration is
// incomplete (capability absent).
func NewSMTP(cfg Config) *SMTP {
	if cfg.Sender == "" || cfg.Recipient == "" || cfg.Host == "" {
		return nil
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

// Send composes and transmits a plain-text message.
func (s *SMTP) Send(subject, body string) error {
	if s == nil {
		return fmt.Errorf("mail: not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.Sender)
	fmt.Fprintf(&msg, "To: %s\r\n", s.cfg.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Sender, s.cfg.Password, s.cfg.Host)
	if err := s.send(addr, auth, s.cfg.Sender, []string{s.cfg.Recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
