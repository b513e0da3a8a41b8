// Package email delivers plans by e-mail
package email

import (
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrNoRecipient is returned when the recipient address is blank
	ErrNoRecipient = errors.New("recipient is required")
	// ErrBadRecipient is returned when the recipient is not an address
	ErrBadRecipient = errors.New("invalid recipient address")
)

type Sender interface {
	Send(to, subject, html string) error
}

// StdoutSender logs messages instead of delivering them
type StdoutSender struct {
	Log zerolog.Logger
}

func (s StdoutSender) Send(to, subject, html string) error {
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}
	s.Log.Info().Str("to", to).Str("subject", subject).Msg(html)
	return nil
}

// SMTPSender delivers through an unauthenticated relay such as MailHog
type SMTPSender struct {
	Addr string
	From string
}

func NewSMTPSender(addr, from string) *SMTPSender {
	if addr == "" {
		addr = "localhost:1025"
	}
	if from == "" {
		from = "no-reply@coachbot.local"
	}
	return &SMTPSender{Addr: addr, From: from}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrNoRecipient
	}
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrBadRecipient, to, err)
	}
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{addr.Address}, buildMessage(s.From, to, subject, html, time.Now())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, html string, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(html, "\n", "\r\n"))
	return []byte(b.String())
}
