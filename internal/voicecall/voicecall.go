// Package voicecall wraps the Twilio Programmable Voice API for the
// escalation voice channel. Every escalation calls the same fixed on-call
// destination; errors are logged by callers, never retried here.
package voicecall

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Caller places the escalation voice call.
type Caller interface {
	PlaceCall(ctx context.Context) error
}

// Opts holds configuration options for the Twilio voice client.
type Opts struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string // fixed on-call destination
	TwiMLURL   string // instructions executed when the call connects
}

// Option defines a configuration option for the Twilio voice client.
type Option func(*Opts)

// WithAccountSID sets the Twilio account SID.
func WithAccountSID(sid string) Option {
	return func(o *Opts) { o.AccountSID = sid }
}

// WithAuthToken sets the Twilio auth token.
func WithAuthToken(token string) Option {
	return func(o *Opts) { o.AuthToken = token }
}

// WithFromNumber sets the outbound caller number.
func WithFromNumber(from string) Option {
	return func(o *Opts) { o.FromNumber = from }
}

// WithToNumber sets the fixed on-call destination number.
func WithToNumber(to string) Option {
	return func(o *Opts) { o.ToNumber = to }
}

// WithTwiMLURL sets the TwiML instruction URL for connected calls.
func WithTwiMLURL(url string) Option {
	return func(o *Opts) { o.TwiMLURL = url }
}

// Client wraps the Twilio REST API for voice calls.
type Client struct {
	client *twilio.RestClient
	from   string
	to     string
	twiml  string
}

// NewClient creates a voice-call client, falling back to environment
// variables for any option not provided.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.AccountSID == "" {
		cfg.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		cfg.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	if cfg.FromNumber == "" {
		cfg.FromNumber = os.Getenv("TWILIO_FROM_NUMBER")
	}
	if cfg.ToNumber == "" {
		cfg.ToNumber = os.Getenv("MINDHAVEN_ONCALL_NUMBER")
	}
	if cfg.TwiMLURL == "" {
		cfg.TwiMLURL = os.Getenv("MINDHAVEN_TWIML_URL")
	}

	slog.Debug("voicecall client config loaded",
		"AccountSID_set", cfg.AccountSID != "",
		"AuthToken_set", cfg.AuthToken != "",
		"FromNumber_set", cfg.FromNumber != "",
		"ToNumber_set", cfg.ToNumber != "")

	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("account SID and auth token must be provided")
	}
	if cfg.FromNumber == "" {
		return nil, fmt.Errorf("from number must be provided")
	}
	if cfg.ToNumber == "" {
		return nil, fmt.Errorf("on-call destination number must be provided")
	}

	client := twilio.NewRestClientWithParams(
		twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		},
	)

	return &Client{
		client: client,
		from:   cfg.FromNumber,
		to:     cfg.ToNumber,
		twiml:  cfg.TwiMLURL,
	}, nil
}

// PlaceCall triggers a voice call to the fixed on-call destination.
func (c *Client) PlaceCall(ctx context.Context) error {
	params := &twilioApi.CreateCallParams{}
	params.SetTo(c.to)
	params.SetFrom(c.from)
	if c.twiml != "" {
		params.SetUrl(c.twiml)
	}

	_, err := c.client.Api.CreateCall(params)
	if err != nil {
		slog.Error("voicecall PlaceCall failed", "to", c.to, "error", err)
		return fmt.Errorf("failed to place call to %s: %w", c.to, err)
	}

	slog.Debug("voicecall call placed", "to", c.to)
	return nil
}

// MockClient records placed calls for tests. Safe for concurrent use,
// since escalation fires channels from separate goroutines.
type MockClient struct {
	mu    sync.Mutex
	calls int
	Err   error
}

// NewMockClient creates a mock voice-call client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// PlaceCall records the call and returns the scripted error, if any.
func (m *MockClient) PlaceCall(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.Err
}

// CallCount returns the number of calls placed so far.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
