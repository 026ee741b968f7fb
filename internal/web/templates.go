package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jaminalder/codex-reversi/internal/app"
	"github.com/jaminalder/codex-reversi/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"discClass": func(c domain.Cell) string {
			switch c {
			case domain.Black:
				return "disc black"
			case domain.White:
				return "disc white"
			default:
				return ""
			}
		},
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Reversi</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.board{display:grid;grid-template-columns:repeat(8,45px);gap:1px;background:#000;width:max-content}
.board form{margin:0}
.board button{width:45px;height:45px;border:0;background:green;padding:0}
.disc{display:block;width:35px;height:35px;margin:auto;border-radius:50%}
.disc.black{background:black}.disc.white{background:white}
.hint{display:block;width:35px;height:35px;margin:auto;border-radius:50%;border:2px solid yellow;box-sizing:border-box}
</style>
</head><body>{{template "content" .}}</body></html>`))
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Reversi</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Reversi</h1>
<p>You are {{.Seat}}</p>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="board">{{template "board" .Board}}</div>
</div>`))
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
		log.Printf("[web] template %s: %v", t.Name(), err)
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p id="status">{{.Status}}</p>
  <div class="board">
  {{range .Rows}}{{range .}}
    <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" action="/game/{{$.ID}}/play" method="post">
      <input type="hidden" name="x" value="{{.X}}">
      <input type="hidden" name="y" value="{{.Y}}">
      <button type="submit">{{if .Disc}}<span class="{{discClass .Disc}}"></span>{{else if .Hint}}<span class="hint"></span>{{end}}</button>
    </form>
  {{end}}{{end}}
  </div>
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" action="/game/{{.ID}}/reset" method="post">
    <button type="submit">{{if .Over}}Play again{{else}}Restart{{end}}</button>
  </form>
</div>
`

type cellView struct {
	X, Y int
	Disc domain.Cell
	Hint bool
}

// boardView is the template model for one board fragment.
type boardView struct {
	ID     string
	Rows   [domain.Size][domain.Size]cellView
	Status string
	Error  string
	Over   bool
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	v := boardView{ID: gs.ID, Error: errMsg, Over: gs.Game.Over, Status: statusLine(gs.Game)}
	for y := 0; y < domain.Size; y++ {
		for x := 0; x < domain.Size; x++ {
			v.Rows[y][x] = cellView{X: x, Y: y, Disc: gs.Game.Board[y][x]}
		}
	}
	for _, p := range gs.Game.LegalMoves() {
		v.Rows[p.Y][p.X].Hint = true
	}
	return v
}

func statusLine(g domain.Game) string {
	sc := g.Score()
	if g.Over {
		switch sc.Winner() {
		case domain.Black:
			return fmt.Sprintf("Black Win! %d-%d", sc.Black, sc.White)
		case domain.White:
			return fmt.Sprintf("White Win! %d-%d", sc.White, sc.Black)
		default:
			return fmt.Sprintf("Draw... %d-%d", sc.Black, sc.White)
		}
	}
	if len(g.Skipped) > 0 {
		return fmt.Sprintf("Skip! %v has no move. %v to move.", g.Skipped[len(g.Skipped)-1], g.Turn)
	}
	return fmt.Sprintf("%v to move. Black %d, White %d", g.Turn, sc.Black, sc.White)
}

const playerCookie = "player_id"

// ensurePlayerCookie returns the caller's player id, issuing a cookie if absent.
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
		return c.Value
	}
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}

// playerID reads the caller's id from the X-Player-ID header or the cookie.
func playerID(r *http.Request) string {
	if v := r.Header.Get("X-Player-ID"); v != "" {
		return v
	}
	if c, err := r.Cookie(playerCookie); err == nil {
		return c.Value
	}
	return ""
}

func seatName(c domain.Cell) string {
	switch c {
	case domain.Black:
		return "Black"
	case domain.White:
		return "White"
	default:
		return "a spectator"
	}
}
