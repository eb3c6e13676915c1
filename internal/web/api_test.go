package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
)

func apiDo(t *testing.T, h http.Handler, method, path, player, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if player != "" {
		req.AddCookie(&http.Cookie{Name: "player_id", Value: player})
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr, out
}

func TestAPICreateAndGet(t *testing.T) {
	_, h := newTestServer(t)
	rr, created := apiDo(t, h, "POST", "/api/games", "", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "/api/games/"+id, rr.Header().Get("Location"))
	assert.Equal(t, "_________", created["board"])
	assert.Equal(t, "human", created["turn"])
	assert.Equal(t, "ongoing", created["outcome"])
	assert.NotContains(t, created, "last_move")
	playerCookie(t, rr)

	rr, got := apiDo(t, h, "GET", "/api/games/"+id, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, got["id"])

	rr, _ = apiDo(t, h, "GET", "/api/games/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPIMove(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame("p1")
	path := "/api/games/" + gs.ID + "/moves"

	rr, body := apiDo(t, h, "POST", path, "p1", `{"cell": 0}`)
	require.Equal(t, http.StatusOK, rr.Code)
	board := body["board"].(string)
	assert.Equal(t, byte('X'), board[0])
	assert.Equal(t, 1, strings.Count(board, "O"), "computer replied")
	assert.Equal(t, float64(2), body["moves"])
	assert.Equal(t, "human", body["turn"])

	tests := []struct {
		name   string
		player string
		body   string
		status int
	}{
		{"occupied", "p1", `{"cell": 0}`, http.StatusBadRequest},
		{"out of range", "p1", `{"cell": 9}`, http.StatusBadRequest},
		{"missing cell", "p1", `{}`, http.StatusBadRequest},
		{"not json", "p1", `cell=1`, http.StatusBadRequest},
		{"spectator", "p2", `{"cell": 8}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := apiDo(t, h, "POST", path, tt.player, tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.NotEmpty(t, body["error"])
		})
	}

	rr, _ = apiDo(t, h, "POST", "/api/games/missing/moves", "p1", `{"cell": 1}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPIFinishedGameConflictsAndRestart(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame("p1")
	var last *app.Session
	for {
		cur, _ := svc.Get(gs.ID)
		if cur.Game.Over() {
			last = cur
			break
		}
		_, err := svc.Play(gs.ID, "p1", cur.Game.Board.Empties()[0])
		require.NoError(t, err)
	}

	rr, _ := apiDo(t, h, "POST", "/api/games/"+gs.ID+"/moves", "p1", `{"cell": 0}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr, _ = apiDo(t, h, "GET", "/api/games/"+gs.ID+"/hint", "p1", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr, body := apiDo(t, h, "GET", "/api/games/"+gs.ID, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["over"])
	assert.Equal(t, last.Game.Outcome.String(), body["outcome"])

	rr, body = apiDo(t, h, "POST", "/api/games/"+gs.ID+"/restart", "p1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "_________", body["board"])
	score := body["score"].(map[string]any)
	assert.Equal(t, float64(1), score["computer_wins"].(float64)+score["draws"].(float64))
}

func TestAPIHint(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame("p1")
	_, err := svc.Play(gs.ID, "p1", 4)
	require.NoError(t, err)

	rr, body := apiDo(t, h, "GET", "/api/games/"+gs.ID+"/hint", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	moves := body["moves"].([]any)
	assert.Len(t, moves, 7)
	for _, m := range moves {
		mv := m.(map[string]any)
		assert.Contains(t, mv, "cell")
		assert.Contains(t, mv, "score")
	}
}
