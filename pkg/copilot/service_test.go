package copilot

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedAnswerer struct {
	calls int
	reply Reply
	err   error
}

func (a *scriptedAnswerer) Answer(context.Context, string, QueryContext) (Reply, error) {
	a.calls++
	return a.reply, a.err
}

func TestSubmitQueryAppendsUserAndAssistant(t *testing.T) {
	answerer := &scriptedAnswerer{reply: Reply{
		Content: "Emissions are **down** 6% this quarter.",
		Actions: []Action{{Label: "Open strategy hub", Route: "st.page.strategy"}},
		Facts:   []string{"Scope 1 down 6.1%"},
	}}
	service := NewService(answerer, nil)
	conv := NewConversation()

	service.SubmitQuery(context.Background(), conv, "How are emissions trending?", QueryContext{Page: "overview"})

	messages := conv.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "How are emissions trending?" {
		t.Fatalf("unexpected user message %+v", messages[0])
	}
	assistant := messages[1]
	if assistant.Role != RoleAssistant {
		t.Fatalf("expected assistant reply, got %+v", assistant)
	}
	if len(assistant.Actions) != 1 || len(assistant.Facts) != 1 {
		t.Fatalf("expected structured reply preserved, got %+v", assistant)
	}
	if !strings.Contains(assistant.HTML, "<strong>down</strong>") {
		t.Fatalf("expected rendered markdown in HTML, got %q", assistant.HTML)
	}
}

func TestSubmitQueryEmptyQuestionIsNoOp(t *testing.T) {
	answerer := &scriptedAnswerer{}
	service := NewService(answerer, nil)
	conv := NewConversation()

	service.SubmitQuery(context.Background(), conv, "   \n", QueryContext{})

	if answerer.calls != 0 {
		t.Fatalf("expected no backend call for blank question")
	}
	if conv.Len() != 0 {
		t.Fatalf("expected conversation untouched, got %d messages", conv.Len())
	}
}

func TestSubmitQueryErrorBecomesReply(t *testing.T) {
	answerer := &scriptedAnswerer{err: errors.New("rate limited")}
	service := NewService(answerer, nil)
	conv := NewConversation()

	service.SubmitQuery(context.Background(), conv, "Summarize water usage", QueryContext{Page: "realestate"})

	messages := conv.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected user message plus error reply, got %d", len(messages))
	}
	if messages[1].Role != RoleAssistant {
		t.Fatalf("expected assistant error message, got %+v", messages[1])
	}
	if !strings.Contains(messages[1].Content, "error") {
		t.Fatalf("expected generic error text, got %q", messages[1].Content)
	}
	if strings.Contains(messages[1].Content, "rate limited") {
		t.Fatalf("backend error should not leak into the reply")
	}
}

func TestSuggestedPromptsPerPage(t *testing.T) {
	overview := SuggestedPrompts("")
	realestate := SuggestedPrompts("realestate")
	strategy := SuggestedPrompts("strategy")
	if len(overview) == 0 || len(realestate) == 0 || len(strategy) == 0 {
		t.Fatalf("expected prompts for every page")
	}
	if overview[0] == realestate[0] {
		t.Fatalf("expected page-specific prompts")
	}
}

func TestConversationMessagesAreCopies(t *testing.T) {
	conv := NewConversation()
	conv.Append(Message{Role: RoleUser, Content: "hello"})
	messages := conv.Messages()
	messages[0].Content = "mutated"
	if conv.Messages()[0].Content != "hello" {
		t.Fatalf("expected snapshot isolation for messages")
	}
}

func TestRendererSanitizesMarkup(t *testing.T) {
	renderer := NewRenderer()
	html, err := renderer.Render("A reply with <script>alert(1)</script> inline.")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Fatalf("expected script stripped, got %q", html)
	}
}
