package copilot

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

const copilotSystemPrompt = `You are the SustainaTrend Co-Pilot, an assistant embedded in a
sustainability analytics dashboard. Answer concisely in markdown. When the
question concerns a specific page, ground the answer in that page's metrics
(trend direction, percent change, virality). Never invent numbers.`

// AnthropicAnswerer answers co-pilot questions with a Claude model.
type AnthropicAnswerer struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicAnswerer builds an answerer over the given client. An empty
// model falls back to the current small default.
func NewAnthropicAnswerer(client *anthropic.Client, model string) *AnthropicAnswerer {
	if model == "" {
		model = string(anthropic.ModelClaude3_5HaikuLatest)
	}
	return &AnthropicAnswerer{
		client:    client,
		model:     model,
		maxTokens: 1024,
	}
}

// Answer sends the question plus page context and returns the text reply.
func (a *AnthropicAnswerer) Answer(ctx context.Context, question string, qctx QueryContext) (Reply, error) {
	if a.client == nil {
		return Reply{}, fmt.Errorf("copilot: anthropic client is not configured")
	}
	prompt := question
	if qctx.Page != "" {
		prompt = fmt.Sprintf("Page: %s\nCategory filter: %s\nTimeframe: %s\n\n%s",
			qctx.Page, orAll(qctx.Category), orAll(qctx.Timeframe), question)
	}
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: copilotSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Reply{}, fmt.Errorf("copilot: anthropic query: %w", err)
	}
	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	content := strings.TrimSpace(b.String())
	if content == "" {
		return Reply{}, fmt.Errorf("copilot: empty model reply")
	}
	return Reply{Content: content}, nil
}

func orAll(v string) string {
	if v == "" {
		return "all"
	}
	return v
}
