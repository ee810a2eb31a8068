package genai

import (
	"context"

	"github.com/openai/openai-go"
)

// MockClient is a test double for ClientInterface. Responses are returned
// in order; once exhausted, DefaultResponse is returned.
type MockClient struct {
	Responses       []string
	DefaultResponse string
	Err             error
	Calls           int
}

// NewMockClient creates a mock client with a fixed default response.
func NewMockClient() *MockClient {
	return &MockClient{DefaultResponse: "mock response"}
}

func (m *MockClient) next() (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		resp := m.Responses[0]
		m.Responses = m.Responses[1:]
		return resp, nil
	}
	return m.DefaultResponse, nil
}

// GeneratePrompt returns the next scripted response.
func (m *MockClient) GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return m.next()
}

// GenerateWithMessages returns the next scripted response.
func (m *MockClient) GenerateWithMessages(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	return m.next()
}
