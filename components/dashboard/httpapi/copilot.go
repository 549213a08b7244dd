package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/sustainatrend/trendboard/pkg/copilot"
)

// CopilotHandlers serves the sustainability co-pilot endpoints. Conversations
// are held in memory keyed by id; a request without an id starts a new one.
type CopilotHandlers struct {
	Service *copilot.Service

	mu            sync.Mutex
	conversations map[string]*copilot.Conversation
}

type copilotQueryRequest struct {
	ConversationID string               `json:"conversation_id,omitempty"`
	Query          string               `json:"query"`
	Context        copilot.QueryContext `json:"context"`
}

// HandleQuery serves POST /api/sustainability-copilot/query. An empty query
// returns the conversation unchanged; no backend call is made.
func (h *CopilotHandlers) HandleQuery(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("copilot not configured"))
		return
	}
	var payload copilotQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	conv := h.conversation(payload.ConversationID)
	h.Service.SubmitQuery(r.Context(), conv, payload.Query, payload.Context)

	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conv.ID(),
		"messages":        conv.Messages(),
	})
}

// HandleSuggestedPrompts serves GET /api/sustainability-copilot/suggested-prompts.
func (h *CopilotHandlers) HandleSuggestedPrompts(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	writeJSON(w, http.StatusOK, map[string]any{
		"page":    page,
		"prompts": copilot.SuggestedPrompts(page),
	})
}

func (h *CopilotHandlers) conversation(id string) *copilot.Conversation {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conversations == nil {
		h.conversations = make(map[string]*copilot.Conversation)
	}
	if id != "" {
		if conv, ok := h.conversations[id]; ok {
			return conv
		}
	}
	conv := copilot.NewConversation()
	h.conversations[conv.ID()] = conv
	return conv
}
