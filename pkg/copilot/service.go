package copilot

import (
	"context"
	"log/slog"
	"strings"
)

const genericErrorReply = "I encountered an error answering that. Please try again in a moment."

// QueryContext carries the page state submitted with a question.
type QueryContext struct {
	Page      string `json:"page"`
	Category  string `json:"category,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
}

// Reply is the structured answer returned by an Answerer.
type Reply struct {
	Content string
	Actions []Action
	Facts   []string
}

// Answerer produces a reply for a user question given page context.
type Answerer interface {
	Answer(ctx context.Context, question string, qctx QueryContext) (Reply, error)
}

// Service drives a co-pilot conversation. The conversation always stays in a
// coherent appended state: a successful query appends a user and an assistant
// message; any failure appends the generic error assistant message instead.
// There is no retry, no streaming, and an in-flight query is never cancelled
// by a newer one.
type Service struct {
	answerer Answerer
	renderer *Renderer
	logger   *slog.Logger
}

// NewService wires an answerer into a conversation service.
func NewService(answerer Answerer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		answerer: answerer,
		renderer: NewRenderer(),
		logger:   logger,
	}
}

// SubmitQuery appends the user question and the assistant reply to the
// conversation. An empty or whitespace-only question is a no-op: no backend
// call is made and no message is appended.
func (s *Service) SubmitQuery(ctx context.Context, conv *Conversation, question string, qctx QueryContext) {
	question = strings.TrimSpace(question)
	if question == "" {
		return
	}
	conv.Append(Message{Role: RoleUser, Content: question})

	reply, err := s.answerer.Answer(ctx, question, qctx)
	if err != nil {
		s.logger.Error("copilot query failed",
			"conversation_id", conv.ID(), "page", qctx.Page, "error", err)
		conv.Append(Message{Role: RoleAssistant, Content: genericErrorReply})
		return
	}

	msg := Message{
		Role:    RoleAssistant,
		Content: reply.Content,
		Actions: reply.Actions,
		Facts:   reply.Facts,
	}
	if html, err := s.renderer.Render(reply.Content); err == nil {
		msg.HTML = html
	} else {
		s.logger.Warn("copilot reply markdown render failed",
			"conversation_id", conv.ID(), "error", err)
	}
	conv.Append(msg)
}

// SuggestedPrompts returns starter questions for a page.
func SuggestedPrompts(page string) []string {
	switch page {
	case "realestate":
		return []string{
			"Which properties drove the biggest BREEAM score change this month?",
			"Where is energy consumption trending against target?",
			"Summarize carbon intensity across the portfolio.",
		}
	case "strategy":
		return []string{
			"Draft a strategy brief for our emissions trend.",
			"Which reporting frameworks have data gaps?",
		}
	default:
		return []string{
			"What are the fastest moving sustainability trends right now?",
			"Which categories worsened over the last quarter?",
			"Explain the virality score on this dashboard.",
		}
	}
}
