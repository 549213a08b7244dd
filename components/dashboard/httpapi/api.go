package httpapi

import (
	"encoding/json"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/sustainatrend/trendboard/components/dashboard"
	"github.com/sustainatrend/trendboard/components/dashboard/commands"
)

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	Assign      gocommand.Commander[dashboard.AddTileRequest]
	Remove      gocommand.Commander[commands.RemoveTileInput]
	Reorder     gocommand.Commander[commands.ReorderTilesInput]
	Refresh     gocommand.Commander[commands.RefreshTileInput]
	Preferences gocommand.Commander[commands.SavePreferencesInput]
}

func (h *Handlers) HandleAssignTile(w http.ResponseWriter, r *http.Request) {
	var payload dashboard.AddTileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Assign.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleRemoveTile(w http.ResponseWriter, r *http.Request, tileID string) {
	input := commands.RemoveTileInput{TileID: tileID}
	if err := h.Remove.Execute(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleReorderTiles(w http.ResponseWriter, r *http.Request) {
	var payload commands.ReorderTilesInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Reorder.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRefreshTile(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshTileInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleSavePreferences(w http.ResponseWriter, r *http.Request, viewer dashboard.ViewerContext) {
	var payload commands.SavePreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Viewer = viewer
	if err := h.Preferences.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
