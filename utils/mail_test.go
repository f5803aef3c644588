package utils

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRelay is a minimal SMTP server that records one conversation per connection.
type fakeRelay struct {
	listener   net.Listener
	rejectAuth bool
	rejectRcpt bool

	mu       sync.Mutex
	auth     string
	from     string
	rcpt     string
	data     string
	finished chan struct{}
}

func startRelay(t *testing.T, opts ...func(*fakeRelay)) *fakeRelay {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	relay := &fakeRelay{listener: l, finished: make(chan struct{}, 1)}
	for _, opt := range opts {
		opt(relay)
	}
	t.Cleanup(func() { l.Close() })
	go relay.serve()
	return relay
}

func (r *fakeRelay) port() int {
	return r.listener.Addr().(*net.TCPAddr).Port
}

func (r *fakeRelay) serve() {
	for {
		conn, err := r.listener.Accept()
		if err != nil {
			return
		}
		go r.handle(conn)
	}
}

func (r *fakeRelay) handle(conn net.Conn) {
	defer func() {
		conn.Close()
		r.finished <- struct{}{}
	}()
	tp := textproto.NewConn(conn)
	tp.PrintfLine("220 relay.test ESMTP")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch verb {
		case "EHLO", "HELO":
			tp.PrintfLine("250-relay.test")
			tp.PrintfLine("250 AUTH PLAIN")
		case "AUTH":
			r.record(func() { r.auth = line })
			if r.rejectAuth {
				tp.PrintfLine("535 5.7.8 authentication failed")
				continue
			}
			tp.PrintfLine("235 2.7.0 accepted")
		case "MAIL":
			r.record(func() { r.from = line })
			tp.PrintfLine("250 ok")
		case "RCPT":
			r.record(func() { r.rcpt = line })
			if r.rejectRcpt {
				tp.PrintfLine("550 5.1.1 no such user")
				continue
			}
			tp.PrintfLine("250 ok")
		case "DATA":
			tp.PrintfLine("354 go ahead")
			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			r.record(func() { r.data = string(body) })
			tp.PrintfLine("250 queued")
		case "QUIT":
			tp.PrintfLine("221 bye")
			return
		default:
			tp.PrintfLine("502 not implemented")
		}
	}
}

func (r *fakeRelay) record(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

func (r *fakeRelay) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.finished:
	case <-time.After(5 * time.Second):
		t.Fatal("relay conversation did not finish")
	}
}

func relayConfig(port int) MailConfig {
	return MailConfig{
		Host:            "127.0.0.1",
		Port:            port,
		Username:        "shop@example.com",
		Password:        "abcd efgh ijkl",
		SenderName:      "TANNARO",
		ConnectTimeout:  2 * time.Second,
		GreetingTimeout: 2 * time.Second,
		SocketTimeout:   2 * time.Second,
	}
}

func TestSMTPMailerSend(t *testing.T) {
	relay := startRelay(t)
	mailer := NewSMTPMailer(relayConfig(relay.port()))

	err := mailer.Send(context.Background(), EmailMessage{
		To:      "Rahim <rahim@example.com>",
		Subject: "Order Confirmation - ORD-000001",
		HTML:    "<p>Thanks</p>",
	})
	require.NoError(t, err)
	relay.wait(t)

	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.True(t, strings.HasPrefix(relay.auth, "AUTH PLAIN "))
	assert.Equal(t, "MAIL FROM:<shop@example.com>", strings.SplitN(relay.from, " BODY", 2)[0])
	assert.Equal(t, "RCPT TO:<rahim@example.com>", relay.rcpt)
	assert.Contains(t, relay.data, `From: "TANNARO" <shop@example.com>`)
	assert.Contains(t, relay.data, "To: rahim@example.com")
	assert.Contains(t, relay.data, "Content-Type: text/html")
	assert.Contains(t, relay.data, "<p>Thanks</p>")
}

func TestSMTPMailerStripsPasswordSpaces(t *testing.T) {
	mailer := NewSMTPMailer(relayConfig(25))
	assert.Equal(t, "abcdefghijkl", mailer.cfg.Password)
	assert.True(t, mailer.HasCredentials())
}

func TestSMTPMailerErrorKinds(t *testing.T) {
	ctx := context.Background()
	msg := EmailMessage{To: "rahim@example.com", Subject: "s", HTML: "b"}

	t.Run("missing credentials", func(t *testing.T) {
		cfg := relayConfig(25)
		cfg.Password = ""
		err := NewSMTPMailer(cfg).Send(ctx, msg)
		assert.Equal(t, MailErrorConfig, MailErrorKindOf(err))
		assert.ErrorIs(t, err, ErrMissingMailCredentials)
	})

	t.Run("bad recipient", func(t *testing.T) {
		err := NewSMTPMailer(relayConfig(25)).Send(ctx, EmailMessage{To: "not an address"})
		assert.Equal(t, MailErrorEnvelope, MailErrorKindOf(err))
	})

	t.Run("relay unreachable", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := l.Addr().(*net.TCPAddr).Port
		l.Close()

		err = NewSMTPMailer(relayConfig(port)).Send(ctx, msg)
		assert.Equal(t, MailErrorConnection, MailErrorKindOf(err))
	})

	t.Run("rejected login", func(t *testing.T) {
		relay := startRelay(t, func(r *fakeRelay) { r.rejectAuth = true })
		err := NewSMTPMailer(relayConfig(relay.port())).Send(ctx, msg)
		assert.Equal(t, MailErrorAuth, MailErrorKindOf(err))
	})

	t.Run("rejected recipient", func(t *testing.T) {
		relay := startRelay(t, func(r *fakeRelay) { r.rejectRcpt = true })
		err := NewSMTPMailer(relayConfig(relay.port())).Send(ctx, msg)
		assert.Equal(t, MailErrorEnvelope, MailErrorKindOf(err))
	})
}

func TestMailErrorKindOfPlainError(t *testing.T) {
	assert.Equal(t, MailErrorUnknown, MailErrorKindOf(assert.AnError))
}
