package llm

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for testing. It returns
// canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned
// responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable
// if the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTranscriber is a deterministic Transcriber for testing.
type MockTranscriber struct {
	mu          sync.Mutex
	Transcripts []string
	Err         error
	Filenames   []string
}

// NewMockTranscriber creates a MockTranscriber returning the given
// transcripts in FIFO order, then empty strings.
func NewMockTranscriber(transcripts ...string) *MockTranscriber {
	return &MockTranscriber{Transcripts: transcripts}
}

func (m *MockTranscriber) Transcribe(_ context.Context, filename string, _ io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Filenames = append(m.Filenames, filename)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Transcripts) == 0 {
		return "", nil
	}
	t := m.Transcripts[0]
	m.Transcripts = m.Transcripts[1:]
	return t, nil
}
