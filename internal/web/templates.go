package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/google/uuid"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(c domain.Cell) string {
			if c == domain.Empty {
				return ""
			}
			return c.String()
		},
		"add": func(a, b int) int { return a + b },
		"mul": func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic Tac Toe vs Computer</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic Tac Toe</h1><p>You play X, the computer plays O.</p><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.Game.ID}}/events">
  <div hx-sse="swap:board">{{.BoardHTML}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		// templates are fixed at build time
		panic(err)
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  <p class="status">{{.Status}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      {{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit"{{if index $.Win $i}} class="win"{{end}}{{if or $.Over (index $.Game.Board $i)}} disabled{{end}}>{{cellSymbol (index $.Game.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <p class="score">You {{.Score.HumanWins}} &middot; Computer {{.Score.ComputerWins}} &middot; Draws {{.Score.Draws}}</p>
  <form hx-post="/game/{{.ID}}/restart" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Restart</button>
  </form>
</div>
`

// boardData is what the board template renders.
type boardData struct {
	ID     string
	Game   struct{ Board domain.Board }
	Status string
	Over   bool
	Win    [9]bool
	Score  app.Scoreboard
	Error  string
}

func newBoardData(s app.Session, errMsg string) boardData {
	d := boardData{
		ID:     s.ID,
		Status: statusText(s.Game),
		Over:   s.Game.Over(),
		Score:  s.Score,
		Error:  errMsg,
	}
	d.Game.Board = s.Game.Board
	if ln, ok := domain.WinningLine(s.Game.Board); ok {
		for _, i := range ln {
			d.Win[i] = true
		}
	}
	return d
}

func statusText(g domain.Game) string {
	switch g.Outcome {
	case domain.HumanWins:
		return "You win!"
	case domain.ComputerWins:
		return "Computer wins"
	case domain.Draw:
		return "It's a draw"
	}
	if g.Turn == domain.ComputerToMove {
		return "Computer is thinking"
	}
	return "Your turn (X)"
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
