package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sustainatrend/trendboard/pkg/copilot"
)

type cannedAnswerer struct {
	calls int
	reply copilot.Reply
	err   error
}

func (a *cannedAnswerer) Answer(context.Context, string, copilot.QueryContext) (copilot.Reply, error) {
	a.calls++
	return a.reply, a.err
}

func copilotAPI(answerer copilot.Answerer) *CopilotHandlers {
	return &CopilotHandlers{Service: copilot.NewService(answerer, nil)}
}

func postCopilotQuery(t *testing.T, api *CopilotHandlers, payload map[string]any) map[string]any {
	t.Helper()
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/sustainability-copilot/query", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleQuery(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHandleQueryAppendsMessages(t *testing.T) {
	answerer := &cannedAnswerer{reply: copilot.Reply{Content: "Energy use is trending down."}}
	api := copilotAPI(answerer)
	body := postCopilotQuery(t, api, map[string]any{
		"query":   "How is energy trending?",
		"context": map[string]string{"page": "overview"},
	})
	messages, ok := body["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected user+assistant messages, got %v", body["messages"])
	}
	if body["conversation_id"] == "" {
		t.Fatalf("expected conversation id assigned")
	}
}

func TestHandleQueryReusesConversation(t *testing.T) {
	answerer := &cannedAnswerer{reply: copilot.Reply{Content: "Answer."}}
	api := copilotAPI(answerer)
	first := postCopilotQuery(t, api, map[string]any{"query": "First question"})
	id, _ := first["conversation_id"].(string)
	if id == "" {
		t.Fatalf("expected conversation id in first response")
	}
	second := postCopilotQuery(t, api, map[string]any{
		"conversation_id": id,
		"query":           "Second question",
	})
	if second["conversation_id"] != id {
		t.Fatalf("expected conversation reuse, got %v", second["conversation_id"])
	}
	messages, _ := second["messages"].([]any)
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages after two queries, got %d", len(messages))
	}
}

func TestHandleQueryEmptyQueryIsNoOp(t *testing.T) {
	answerer := &cannedAnswerer{}
	api := copilotAPI(answerer)
	body := postCopilotQuery(t, api, map[string]any{"query": "   "})
	if answerer.calls != 0 {
		t.Fatalf("expected no backend call for empty query")
	}
	if messages, _ := body["messages"].([]any); len(messages) != 0 {
		t.Fatalf("expected empty conversation, got %d messages", len(messages))
	}
}

func TestHandleQueryWithoutService(t *testing.T) {
	api := &CopilotHandlers{}
	req := httptest.NewRequest(http.MethodPost, "/api/sustainability-copilot/query", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()
	api.HandleQuery(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHandleSuggestedPrompts(t *testing.T) {
	api := &CopilotHandlers{}
	req := httptest.NewRequest(http.MethodGet, "/api/sustainability-copilot/suggested-prompts?page=strategy", nil)
	rec := httptest.NewRecorder()
	api.HandleSuggestedPrompts(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Page    string   `json:"page"`
		Prompts []string `json:"prompts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Page != "strategy" || len(body.Prompts) == 0 {
		t.Fatalf("expected strategy prompts, got %+v", body)
	}
}
