package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"socialpost-ai/internal/domain"
	"socialpost-ai/internal/usecases"
)

const researchOutput = "AI tutors are reaching more classrooms.\n\n" +
	"Key fact: 40% of teachers use AI weekly.\n" +
	"Trend: adaptive learning\n" +
	"Source: https://example.com/survey"

// searchThenAnswer calls web_search once and then answers with researchOutput.
func searchThenAnswer(args string) func([]domain.Message, []domain.Tool) (domain.Completion, error) {
	return func(msgs []domain.Message, tools []domain.Tool) (domain.Completion, error) {
		if lastMessage(msgs).Role == domain.RoleTool {
			return domain.Completion{Content: researchOutput}, nil
		}
		return domain.Completion{ToolCalls: []domain.ToolCall{{ID: "call_1", Name: "web_search", Arguments: args}}}, nil
	}
}

func TestResearchTopicUseCase_Execute_CacheHit(t *testing.T) {
	// Arrange
	cached := domain.ResearchResult{Summary: "cached summary"}
	cache := NewMockCache()
	cache.Set("AI", cached)
	llm := &MockLLM{respond: searchThenAnswer(`{"query":"AI"}`)}
	searcher := &MockSearcher{}
	uc := usecases.NewResearchTopicUseCase(cache, searcher, llm, 5)

	// Act
	got := uc.Execute(context.Background(), "AI", nil)

	// Assert
	if got != cached {
		t.Errorf("got %+v, want cached result", got)
	}
	if len(llm.Calls()) != 0 || len(searcher.queries) != 0 {
		t.Error("cache hit should not call the model or the searcher")
	}
}

func TestResearchTopicUseCase_Execute_ToolLoop_ParsesAndCaches(t *testing.T) {
	// Arrange
	cache := NewMockCache()
	llm := &MockLLM{respond: searchThenAnswer(`{"query":"ai tutors"}`)}
	searcher := &MockSearcher{chunks: []domain.Chunk{
		{Text: "Schools adopt AI tutors.", Source: "https://example.com/a", Title: "Tutors"},
	}}
	uc := usecases.NewResearchTopicUseCase(cache, searcher, llm, 5)

	// Act
	got := uc.Execute(context.Background(), "AI in education", nil)

	// Assert
	if got.Summary != "AI tutors are reaching more classrooms." {
		t.Errorf("summary: got %q", got.Summary)
	}
	if got.KeyFacts != "Key fact: 40% of teachers use AI weekly." {
		t.Errorf("key facts: got %q", got.KeyFacts)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "ai tutors" {
		t.Errorf("queries: got %v", searcher.queries)
	}
	calls := llm.Calls()
	if len(calls) != 2 {
		t.Fatalf("model calls: got %d, want 2", len(calls))
	}
	toolMsg := lastMessage(calls[1].Msgs)
	if toolMsg.ToolCallID != "call_1" || !strings.Contains(toolMsg.Content, "Source: https://example.com/a") {
		t.Errorf("tool message: got %+v", toolMsg)
	}
	if _, found := cache.Get("AI in education"); !found {
		t.Error("result should be cached under the original topic")
	}
}

func TestResearchTopicUseCase_Execute_SecondCallServedFromCache(t *testing.T) {
	// Arrange
	cache := NewMockCache()
	llm := &MockLLM{respond: searchThenAnswer(`{"query":"q"}`)}
	searcher := &MockSearcher{}
	uc := usecases.NewResearchTopicUseCase(cache, searcher, llm, 5)

	// Act
	first := uc.Execute(context.Background(), "topic", nil)
	second := uc.Execute(context.Background(), "topic", nil)

	// Assert
	if first != second {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if len(searcher.queries) != 1 {
		t.Errorf("search invoked %d times, want 1", len(searcher.queries))
	}
}

func TestResearchTopicUseCase_Execute_QueryIncludesFocusAreas(t *testing.T) {
	// Arrange
	llm := &MockLLM{respond: func(msgs []domain.Message, tools []domain.Tool) (domain.Completion, error) {
		return domain.Completion{Content: researchOutput}, nil
	}}
	uc := usecases.NewResearchTopicUseCase(NewMockCache(), &MockSearcher{}, llm, 5)

	// Act
	uc.Execute(context.Background(), "AI", []string{"key statistics", "social media angles"})

	// Assert
	calls := llm.Calls()
	if len(calls) != 1 {
		t.Fatalf("model calls: got %d, want 1", len(calls))
	}
	want := "Research about AI focusing on: key statistics, social media angles"
	if got := calls[0].Msgs[1].Content; got != want {
		t.Errorf("query: got %q, want %q", got, want)
	}
	if len(calls[0].Tools) != 1 || calls[0].Tools[0].Name != "web_search" {
		t.Errorf("tools: got %+v", calls[0].Tools)
	}
}

func TestResearchTopicUseCase_Execute_IterationLimit_FinalCallWithoutTools(t *testing.T) {
	// Arrange
	llm := &MockLLM{respond: func(msgs []domain.Message, tools []domain.Tool) (domain.Completion, error) {
		if tools == nil {
			return domain.Completion{Content: researchOutput}, nil
		}
		return domain.Completion{ToolCalls: []domain.ToolCall{{ID: "c", Name: "web_search", Arguments: `{"query":"again"}`}}}, nil
	}}
	searcher := &MockSearcher{}
	uc := usecases.NewResearchTopicUseCase(NewMockCache(), searcher, llm, 2)

	// Act
	got := uc.Execute(context.Background(), "AI", nil)

	// Assert
	if got.Summary != "AI tutors are reaching more classrooms." {
		t.Errorf("summary: got %q", got.Summary)
	}
	if len(searcher.queries) != 2 {
		t.Errorf("searches: got %d, want 2", len(searcher.queries))
	}
	calls := llm.Calls()
	if len(calls) != 3 || calls[2].Tools != nil {
		t.Errorf("want 2 tool rounds and a final tool-less call, got %d calls", len(calls))
	}
}

func TestResearchTopicUseCase_Execute_ModelError_FallbackNotCached(t *testing.T) {
	// Arrange
	cache := NewMockCache()
	llm := &MockLLM{respond: func(msgs []domain.Message, tools []domain.Tool) (domain.Completion, error) {
		return domain.Completion{}, errors.New("upstream down")
	}}
	uc := usecases.NewResearchTopicUseCase(cache, &MockSearcher{}, llm, 5)

	// Act
	got := uc.Execute(context.Background(), "AI", nil)

	// Assert
	if got != domain.FallbackResearch("AI") {
		t.Errorf("got %+v, want fallback", got)
	}
	if _, found := cache.Get("AI"); found {
		t.Error("fallback must not be cached")
	}
}

func TestResearchTopicUseCase_Execute_EmptyAnswer_Fallback(t *testing.T) {
	llm := &MockLLM{respond: func(msgs []domain.Message, tools []domain.Tool) (domain.Completion, error) {
		return domain.Completion{Content: "  "}, nil
	}}
	uc := usecases.NewResearchTopicUseCase(NewMockCache(), &MockSearcher{}, llm, 5)

	got := uc.Execute(context.Background(), "AI", nil)

	if got != domain.FallbackResearch("AI") {
		t.Errorf("got %+v, want fallback", got)
	}
}

func TestResearchTopicUseCase_Execute_ToolWithoutQuery_UsesResearchQuery(t *testing.T) {
	llm := &MockLLM{respond: searchThenAnswer(`{}`)}
	searcher := &MockSearcher{}
	uc := usecases.NewResearchTopicUseCase(NewMockCache(), searcher, llm, 5)

	uc.Execute(context.Background(), "AI", nil)

	if len(searcher.queries) != 1 || searcher.queries[0] != "Research about AI" {
		t.Errorf("queries: got %v", searcher.queries)
	}
}

func TestResearchTopicUseCase_Execute_NoChunks_TellsModel(t *testing.T) {
	llm := &MockLLM{respond: searchThenAnswer(`{"query":"obscure"}`)}
	uc := usecases.NewResearchTopicUseCase(NewMockCache(), &MockSearcher{}, llm, 5)

	uc.Execute(context.Background(), "AI", nil)

	toolMsg := lastMessage(llm.Calls()[1].Msgs)
	if !strings.Contains(toolMsg.Content, "No results found") {
		t.Errorf("tool message: got %q", toolMsg.Content)
	}
}
