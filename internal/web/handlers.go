package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       zerolog.Logger
	heartbeat time.Duration
}

func (h *handlers) renderBoard(s app.Session, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", newBoardData(s, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.CreateGame(pid)
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// ensure cookie and auto-claim seat
	pid := ensurePlayerCookie(w, r)
	_, gs, err := h.svc.Claim(id, pid)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Game      struct{ ID string }
		BoardHTML template.HTML
	}{}
	data.Game.ID = gs.ID
	data.BoardHTML = template.HTML(h.renderBoard(*gs, ""))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "base", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	owner, gs, err := h.svc.Claim(id, pid)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	var errMsg string
	if !owner {
		errMsg = "You are a spectator"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, errMsg))
}

// cellFromForm reads either a "cell" index or an "r"/"c" pair.
func cellFromForm(r *http.Request) (int, error) {
	if err := r.ParseForm(); err != nil {
		return 0, err
	}
	if v := r.Form.Get("cell"); v != "" {
		return strconv.Atoi(v)
	}
	ri, err := strconv.Atoi(r.Form.Get("r"))
	if err != nil {
		return 0, err
	}
	ci, err := strconv.Atoi(r.Form.Get("c"))
	if err != nil {
		return 0, err
	}
	idx, ok := domain.Index(ri, ci)
	if !ok {
		return 0, domain.ErrOutOfBounds
	}
	return idx, nil
}

func errorText(err error) string {
	switch {
	case errors.Is(err, app.ErrNotAPlayer):
		return "You are a spectator"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, domain.ErrNotYourTurn):
		return "Not your turn"
	default:
		return "Invalid move"
	}
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	var gs *app.Session
	idx, err := cellFromForm(r)
	if err == nil {
		gs, err = h.svc.Play(id, pid, idx)
	}
	h.writeBoardResult(w, r, id, gs, err)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.Restart(id, pid)
	h.writeBoardResult(w, r, id, gs, err)
}

func (h *handlers) writeBoardResult(w http.ResponseWriter, r *http.Request, id string, gs *app.Session, err error) {
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	var errMsg string
	if err != nil {
		errMsg = errorText(err)
		if gs == nil {
			if g, ok := h.svc.Get(id); ok {
				gs = g
			}
		}
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: board\n")
			_, _ = fmt.Fprintf(w, "data: %s\n\n", oneLine(b))
			flusher.Flush()
		}
	}
}

// oneLine strips newlines so a fragment fits a single SSE data field.
func oneLine(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c != '\n' && c != '\r' {
			out = append(out, c)
		}
	}
	return out
}
