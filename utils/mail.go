package utils

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

type MailErrorKind string

const (
	MailErrorConfig     MailErrorKind = "config"
	MailErrorConnection MailErrorKind = "connection"
	MailErrorAuth       MailErrorKind = "authentication"
	MailErrorEnvelope   MailErrorKind = "envelope"
	MailErrorUnknown    MailErrorKind = "unknown"
)

// MailError records which phase of a delivery failed.
type MailError struct {
	Kind MailErrorKind
	Err  error
}

func (e *MailError) Error() string { return string(e.Kind) + " error: " + e.Err.Error() }

func (e *MailError) Unwrap() error { return e.Err }

// MailErrorKindOf returns the kind of a mail failure, or MailErrorUnknown.
func MailErrorKindOf(err error) MailErrorKind {
	var mailErr *MailError
	if errors.As(err, &mailErr) {
		return mailErr.Kind
	}
	return MailErrorUnknown
}

var ErrMissingMailCredentials = errors.New("smtp credentials are not set")

type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	SenderName string

	ConnectTimeout  time.Duration
	GreetingTimeout time.Duration
	SocketTimeout   time.Duration
}

// SMTPMailer delivers through an authenticated relay, upgrading to TLS when offered.
type SMTPMailer struct {
	cfg MailConfig
}

func NewSMTPMailer(cfg MailConfig) *SMTPMailer {
	// app passwords are often pasted with spaces
	cfg.Password = strings.Join(strings.Fields(cfg.Password), "")
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) HasCredentials() bool {
	return m.cfg.Username != "" && m.cfg.Password != ""
}

func (m *SMTPMailer) Sender() string {
	return (&mail.Address{Name: m.cfg.SenderName, Address: m.cfg.Username}).String()
}

func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	if !m.HasCredentials() {
		return &MailError{Kind: MailErrorConfig, Err: ErrMissingMailCredentials}
	}

	recipient, err := mail.ParseAddress(msg.To)
	if err != nil {
		return &MailError{Kind: MailErrorEnvelope, Err: fmt.Errorf("invalid recipient %q: %w", msg.To, err)}
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	dialer := net.Dialer{Timeout: m.cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return &MailError{Kind: MailErrorConnection, Err: fmt.Errorf("dial %s: %w", addr, err)}
	}

	conn.SetDeadline(time.Now().Add(m.cfg.GreetingTimeout))
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return &MailError{Kind: MailErrorConnection, Err: fmt.Errorf("smtp greeting: %w", err)}
	}
	defer client.Close()

	conn.SetDeadline(time.Now().Add(m.cfg.SocketTimeout))

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return &MailError{Kind: MailErrorConnection, Err: fmt.Errorf("starttls: %w", err)}
		}
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return &MailError{Kind: MailErrorAuth, Err: err}
	}

	if err := client.Mail(m.cfg.Username); err != nil {
		return &MailError{Kind: MailErrorEnvelope, Err: fmt.Errorf("mail from: %w", err)}
	}
	if err := client.Rcpt(recipient.Address); err != nil {
		return &MailError{Kind: MailErrorEnvelope, Err: fmt.Errorf("rcpt to: %w", err)}
	}

	w, err := client.Data()
	if err != nil {
		return &MailError{Kind: MailErrorUnknown, Err: fmt.Errorf("data: %w", err)}
	}
	if _, err := w.Write(m.compose(recipient.Address, msg)); err != nil {
		w.Close()
		return &MailError{Kind: MailErrorUnknown, Err: fmt.Errorf("write body: %w", err)}
	}
	if err := w.Close(); err != nil {
		return &MailError{Kind: MailErrorUnknown, Err: fmt.Errorf("finish body: %w", err)}
	}

	// the relay accepted the message once DATA completed
	_ = client.Quit()
	return nil
}

func (m *SMTPMailer) compose(to string, msg EmailMessage) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.Sender())
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.HTML)
	return []byte(sb.String())
}
