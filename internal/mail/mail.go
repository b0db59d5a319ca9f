// Package mail sends transactional email behind a Sender capability with one
// concrete SMTP adapter.
package mail

import (
	"errors"
	"strconv"

	"github.com/ampmbg/backend/internal/config"
	gomail "gopkg.in/gomail.v2"
)

type Sender interface {
	Send(to, subject, html string) error
}

// SMTPSender delivers through a configured SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, errors.New("SMTP not configured (SMTP_HOST, SMTP_USER, SMTP_PASS)")
	}

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	d := gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass)
	d.SSL = cfg.SMTPSecure

	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPSender{dialer: d, from: from}, nil
}

func (s *SMTPSender) Send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)
	return s.dialer.DialAndSend(m)
}

// NopSender drops email. Used when SMTP is not configured so registration
// still works in development.
type NopSender struct{}

func (NopSender) Send(string, string, string) error { return nil }
