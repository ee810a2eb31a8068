// Package email provides the outbound email collaborator for escalation
// alerts. Each recipient is an independent send; failures are reported per
// recipient and never retried here.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/wneessen/go-mail"
)

// Sender dispatches one email to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Opts holds configuration options for the SMTP sender.
type Opts struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Option defines a configuration option for the SMTP sender.
type Option func(*Opts)

// WithHost sets the SMTP server host.
func WithHost(host string) Option {
	return func(o *Opts) { o.Host = host }
}

// WithPort sets the SMTP server port.
func WithPort(port int) Option {
	return func(o *Opts) { o.Port = port }
}

// WithUsername sets the SMTP username.
func WithUsername(username string) Option {
	return func(o *Opts) { o.Username = username }
}

// WithPassword sets the SMTP password.
func WithPassword(password string) Option {
	return func(o *Opts) { o.Password = password }
}

// WithFrom sets the sender address.
func WithFrom(from string) Option {
	return func(o *Opts) { o.From = from }
}

// SMTPSender sends mail over an authenticated SMTP connection.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender creates an SMTP sender, falling back to SMTP_HOST,
// SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, and SMTP_FROM environment
// variables for any option not provided.
func NewSMTPSender(opts ...Option) (*SMTPSender, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Host == "" {
		cfg.Host = os.Getenv("SMTP_HOST")
	}
	if cfg.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
			cfg.Port = port
		} else {
			cfg.Port = 587
		}
	}
	if cfg.Username == "" {
		cfg.Username = os.Getenv("SMTP_USERNAME")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("SMTP_PASSWORD")
	}
	if cfg.From == "" {
		cfg.From = os.Getenv("SMTP_FROM")
	}

	slog.Debug("email sender config loaded",
		"host_set", cfg.Host != "",
		"username_set", cfg.Username != "",
		"from_set", cfg.From != "",
		"port", cfg.Port)

	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host must be provided")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("sender address must be provided")
	}

	clientOpts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send dispatches one email to one recipient.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address %s: %w", s.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %s: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Error("email Send failed", "to", to, "error", err)
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	slog.Debug("email sent", "to", to)
	return nil
}

// SentMessage records one delivery made through the MockSender.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// MockSender records sends for tests and can fail selected recipients.
// Safe for concurrent use, since escalation fans sends out across
// goroutines.
type MockSender struct {
	mu       sync.Mutex
	sent     []SentMessage
	attempts []string
	FailFor  map[string]error
}

// NewMockSender creates a mock email sender.
func NewMockSender() *MockSender {
	return &MockSender{FailFor: make(map[string]error)}
}

// Send records the attempt and either the delivery or the scripted error
// for the recipient.
func (m *MockSender) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, to)
	if err, ok := m.FailFor[to]; ok {
		return err
	}
	m.sent = append(m.sent, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the successful deliveries.
func (m *MockSender) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// AttemptCount returns the number of sends attempted, failed or not.
func (m *MockSender) AttemptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attempts)
}
