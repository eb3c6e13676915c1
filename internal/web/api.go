package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

type gameResponse struct {
	ID          string         `json:"id"`
	Board       string         `json:"board"`
	Turn        string         `json:"turn"`
	Outcome     string         `json:"outcome"`
	Over        bool           `json:"over"`
	Moves       int            `json:"moves"`
	LastMove    *int           `json:"last_move,omitempty"`
	WinningLine []int          `json:"winning_line,omitempty"`
	Score       app.Scoreboard `json:"score"`
}

func newGameResponse(s app.Session) gameResponse {
	g := s.Game
	resp := gameResponse{
		ID:      s.ID,
		Board:   g.Board.String(),
		Turn:    g.Turn.String(),
		Outcome: g.Outcome.String(),
		Over:    g.Over(),
		Moves:   g.Moves,
		Score:   s.Score,
	}
	if g.LastMove >= 0 {
		last := g.LastMove
		resp.LastMove = &last
	}
	if ln, ok := domain.WinningLine(g.Board); ok {
		resp.WinningLine = ln[:]
	}
	return resp
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNotAPlayer):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrGameOver), errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidMove):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) writeAPIError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("api request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *handlers) apiCreate(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.CreateGame(pid)
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	w.Header().Set("Location", "/api/games/"+gs.ID)
	writeJSON(w, http.StatusCreated, newGameResponse(*gs))
}

func (h *handlers) apiGet(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		h.writeAPIError(w, app.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newGameResponse(*gs))
}

func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": 0..8}"})
		return
	}
	gs, err := h.svc.Play(chi.URLParam(r, "id"), pid, *req.Cell)
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameResponse(*gs))
}

func (h *handlers) apiRestart(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.Restart(chi.URLParam(r, "id"), pid)
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameResponse(*gs))
}

func (h *handlers) apiHint(w http.ResponseWriter, r *http.Request) {
	hints, err := h.svc.Hint(chi.URLParam(r, "id"))
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"moves": hints})
}
