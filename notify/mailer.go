package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"strings"

	"gopkg.in/gomail.v2"

	"resort-backend/utils"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	// SkipVerify disables TLS certificate checks (local relays only).
	SkipVerify bool
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != 0 && c.Username != "" && c.Password != ""
}

// NewMailer returns an SMTP mailer, or a LogMailer when SMTP is not configured.
func NewMailer(cfg SMTPConfig) Mailer {
	if !cfg.Configured() {
		log.Println("⚠️  SMTP not configured; emails will be logged only")
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.SkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &SMTPMailer{cfg: cfg, dialer: d}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.cfg.Username, m.cfg.FromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", sanitizeHeader(msg.Subject))
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			gm.AddAlternative("text/html", msg.HTML)
		}
	} else {
		gm.SetBody("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		log.Printf("❌ Failed to send email to %s: %v", utils.MaskEmail(msg.To), err)
		return fmt.Errorf("send mail to %s: %w", utils.MaskEmail(msg.To), err)
	}
	log.Printf("📨 Email sent to %s (%s)", utils.MaskEmail(msg.To), msg.Subject)
	return nil
}

// LogMailer stands in for SMTP in development.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	log.Printf("[MOCK EMAIL] to:%s subject:%q", utils.MaskEmail(msg.To), msg.Subject)
	return nil
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(s))
}
