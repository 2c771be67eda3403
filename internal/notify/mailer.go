// Package notify delivers tenant e-mail.
package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/stwalsh4118/rms/internal/logger"
)

// ErrNotConfigured is returned when sending without an SMTP host.
var ErrNotConfigured = errors.New("SMTP not configured")

// Message is a plain-text e-mail to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends e-mail.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	From    string
	DevMode bool
}

// SMTPMailer sends messages over SMTP, or only logs them in dev mode.
type SMTPMailer struct {
	config SMTPConfig
	log    *logger.Logger
}

// NewSMTPMailer creates a mailer with the given config.
func NewSMTPMailer(config SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{config: config, log: log}
}

// Send delivers msg. Port 465 uses implicit TLS; any other port goes
// through smtp.SendMail, which upgrades with STARTTLS when offered.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if m.config.DevMode {
		m.log.Info("[DEV] E-mail not sent", logger.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
			"body":    msg.Body,
		})
		return nil
	}

	if m.config.Host == "" {
		return ErrNotConfigured
	}

	raw := buildEmail(m.config.From, msg.To, msg.Subject, msg.Body)
	addr := m.config.Host + ":" + m.config.Port

	var err error
	if m.config.Port == "465" {
		err = m.sendImplicitTLS(addr, msg.To, raw)
	} else {
		err = smtp.SendMail(addr, m.auth(), m.config.From, []string{msg.To}, raw)
	}
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", msg.To, err)
	}

	m.log.Debug("E-mail sent", logger.Fields{"to": msg.To, "subject": msg.Subject})
	return nil
}

func (m *SMTPMailer) auth() smtp.Auth {
	if m.config.User == "" {
		return nil
	}
	return smtp.PlainAuth("", m.config.User, m.config.Pass, m.config.Host)
}

func (m *SMTPMailer) sendImplicitTLS(addr, to string, raw []byte) (err error) {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.config.Host})
	if err != nil {
		return fmt.Errorf("TLS dial: %w", err)
	}

	c, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil && err == nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if a := m.auth(); a != nil {
		if err := c.Auth(a); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}
	if err := c.Mail(m.config.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to %s: %w", to, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	return nil
}

func buildEmail(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
