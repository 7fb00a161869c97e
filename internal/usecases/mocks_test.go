package usecases_test

import (
	"context"
	"sync"

	"socialpost-ai/internal/domain"
)

// MockLLM answers chat calls through respond and records every call.
type MockLLM struct {
	mu      sync.Mutex
	calls   []MockLLMCall
	respond func(msgs []domain.Message, tools []domain.Tool) (domain.Completion, error)
}

type MockLLMCall struct {
	Msgs  []domain.Message
	Tools []domain.Tool
}

func (m *MockLLM) Chat(ctx context.Context, msgs []domain.Message, tools []domain.Tool) (domain.Completion, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockLLMCall{Msgs: append([]domain.Message(nil), msgs...), Tools: tools})
	m.mu.Unlock()
	return m.respond(msgs, tools)
}

func (m *MockLLM) Calls() []MockLLMCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockLLMCall(nil), m.calls...)
}

// MockCache is a mock implementation of ResearchCache.
type MockCache struct {
	entries map[string]domain.ResearchResult
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string]domain.ResearchResult)}
}

func (m *MockCache) Get(topic string) (domain.ResearchResult, bool) {
	r, ok := m.entries[topic]
	return r, ok
}

func (m *MockCache) Set(topic string, data domain.ResearchResult) {
	m.entries[topic] = data
}

// MockSearcher is a mock implementation of WebSearcher.
type MockSearcher struct {
	chunks  []domain.Chunk
	queries []string
}

func (m *MockSearcher) SearchAndScrape(ctx context.Context, query string) []domain.Chunk {
	m.queries = append(m.queries, query)
	return m.chunks
}

// MockResearcher is a mock implementation of Researcher.
type MockResearcher struct {
	result     domain.ResearchResult
	topics     []string
	focusAreas []string
}

func (m *MockResearcher) Execute(ctx context.Context, topic string, focusAreas []string) domain.ResearchResult {
	m.topics = append(m.topics, topic)
	m.focusAreas = focusAreas
	return m.result
}

func systemPrompt(msgs []domain.Message) string {
	if len(msgs) > 0 && msgs[0].Role == domain.RoleSystem {
		return msgs[0].Content
	}
	return ""
}

func lastMessage(msgs []domain.Message) domain.Message {
	return msgs[len(msgs)-1]
}
