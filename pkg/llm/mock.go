package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client implementation for tests. Responses are
// returned in order; once exhausted the last one repeats. If Err is set it
// is returned for every call instead.
type MockClient struct {
	mu        sync.Mutex
	responses []CompletionResponse
	requests  []CompletionRequest
	next      int

	Err error
}

// NewMockClient creates a mock client that replays the given responses.
func NewMockClient(responses ...CompletionResponse) *MockClient {
	return &MockClient{responses: responses}
}

// Complete implements the Client interface.
func (m *MockClient) Complete(_ context.Context, in CompletionRequest) (CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, in)

	if m.Err != nil {
		return CompletionResponse{}, m.Err
	}
	if len(m.responses) == 0 {
		return CompletionResponse{}, nil
	}

	resp := m.responses[m.next]
	if m.next < len(m.responses)-1 {
		m.next++
	}
	return resp, nil
}

// ModelName implements the Client interface.
func (m *MockClient) ModelName() string {
	return "mock-model"
}

// Requests returns a copy of all requests seen so far.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of completion calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
