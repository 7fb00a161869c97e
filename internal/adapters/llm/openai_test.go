package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialpost-ai/internal/adapters/llm"
	"socialpost-ai/internal/domain"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role       string `json:"role"`
		Content    string `json:"content"`
		ToolCallID string `json:"tool_call_id"`
		ToolCalls  []struct {
			ID       string `json:"id"`
			Function struct {
				Name string `json:"name"`
			} `json:"function"`
		} `json:"tool_calls"`
	} `json:"messages"`
	Tools []struct {
		Type     string `json:"type"`
		Function struct {
			Name string `json:"name"`
		} `json:"function"`
	} `json:"tools"`
}

func newServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Chat_ReturnsContent(t *testing.T) {
	// Arrange
	var req capturedRequest
	srv := newServer(t, http.StatusOK, `{
		"id":"c1","object":"chat.completion","model":"test-model",
		"choices":[{"index":0,"message":{"role":"assistant","content":"Hello there"},"finish_reason":"stop"}],
		"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`, &req)
	client := llm.NewClient("key", srv.URL+"/v1", llm.WithModel("test-model"))

	// Act
	got, err := client.Chat(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "be brief"},
		{Role: domain.RoleUser, Content: "hi"},
	}, nil)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "Hello there" {
		t.Errorf("content: got %q", got.Content)
	}
	if req.Model != "test-model" {
		t.Errorf("model: got %q", req.Model)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "hi" {
		t.Errorf("messages: got %+v", req.Messages)
	}
	if len(req.Tools) != 0 {
		t.Errorf("tools should be omitted, got %+v", req.Tools)
	}
}

func TestClient_Chat_ToolCallsRoundTrip(t *testing.T) {
	// Arrange
	var req capturedRequest
	srv := newServer(t, http.StatusOK, `{
		"choices":[{"index":0,"message":{"role":"assistant","content":"",
			"tool_calls":[{"id":"call_1","type":"function","function":{"name":"web_search","arguments":"{\"query\":\"ai tutors\"}"}}]},
			"finish_reason":"tool_calls"}]}`, &req)
	client := llm.NewClient("key", srv.URL+"/v1")
	tools := []domain.Tool{{
		Name:        "web_search",
		Description: "search",
		Parameters:  map[string]any{"type": "object"},
	}}
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "research"},
		{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{{ID: "call_0", Name: "web_search", Arguments: "{}"}}},
		{Role: domain.RoleTool, Content: "results", ToolCallID: "call_0"},
	}

	// Act
	got, err := client.Chat(context.Background(), history, tools)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.ToolCalls) != 1 {
		t.Fatalf("tool calls: got %d, want 1", len(got.ToolCalls))
	}
	call := got.ToolCalls[0]
	if call.ID != "call_1" || call.Name != "web_search" || call.Arguments != `{"query":"ai tutors"}` {
		t.Errorf("tool call: got %+v", call)
	}
	if len(req.Tools) != 1 || req.Tools[0].Type != "function" || req.Tools[0].Function.Name != "web_search" {
		t.Errorf("tools: got %+v", req.Tools)
	}
	if req.Messages[1].ToolCalls[0].ID != "call_0" || req.Messages[2].ToolCallID != "call_0" {
		t.Errorf("tool history not forwarded: %+v", req.Messages)
	}
}

func TestClient_Chat_NoChoices_EmptyCompletion(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"choices":[]}`, nil)
	client := llm.NewClient("key", srv.URL+"/v1")

	_, err := client.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil)

	if !errors.Is(err, domain.ErrEmptyCompletion) {
		t.Errorf("got %v, want ErrEmptyCompletion", err)
	}
}

func TestClient_Chat_TooManyRequests_RateLimited(t *testing.T) {
	srv := newServer(t, http.StatusTooManyRequests,
		`{"error":{"message":"slow down","type":"rate_limit_exceeded"}}`, nil)
	client := llm.NewClient("key", srv.URL+"/v1")

	_, err := client.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil)

	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("got %v, want ErrRateLimited", err)
	}
}

func TestClient_Chat_ServerError_Propagates(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`, nil)
	client := llm.NewClient("key", srv.URL+"/v1")

	_, err := client.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil)

	if err == nil || errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("got %v, want a plain upstream error", err)
	}
}
