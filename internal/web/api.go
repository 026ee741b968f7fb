package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/codex-reversi/internal/app"
	"github.com/jaminalder/codex-reversi/internal/domain"
)

type stateDTO struct {
	ID         string                         `json:"id"`
	Board      [domain.Size][domain.Size]int8 `json:"board"`
	Turn       string                         `json:"turn"`
	Status     string                         `json:"status"`
	LegalMoves []domain.Pos                   `json:"legal_moves"`
	Score      domain.Score                   `json:"score"`
	Winner     string                         `json:"winner,omitempty"`
	Skipped    []string                       `json:"skipped,omitempty"`
	Moves      int                            `json:"moves"`
	Seat       string                         `json:"seat"`
}

type moveDTO struct {
	X       int          `json:"x"`
	Y       int          `json:"y"`
	Player  string       `json:"player"`
	Flipped []domain.Pos `json:"flipped"`
}

type moveRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func colorName(c domain.Cell) string {
	switch c {
	case domain.Black:
		return "black"
	case domain.White:
		return "white"
	default:
		return ""
	}
}

func newStateDTO(gs app.GameState, pid string) stateDTO {
	g := gs.Game
	dto := stateDTO{
		ID:         gs.ID,
		Turn:       colorName(g.Turn),
		Status:     g.Status().String(),
		LegalMoves: g.LegalMoves(),
		Score:      g.Score(),
		Moves:      g.Moves,
		Seat:       colorName(gs.Seat(pid)),
	}
	if dto.LegalMoves == nil {
		dto.LegalMoves = []domain.Pos{}
	}
	for y := range g.Board {
		for x := range g.Board[y] {
			dto.Board[y][x] = int8(g.Board[y][x])
		}
	}
	if g.Over {
		dto.Winner = colorName(g.Winner())
		if dto.Winner == "" {
			dto.Winner = "draw"
		}
	}
	for _, c := range g.Skipped {
		dto.Skipped = append(dto.Skipped, colorName(c))
	}
	if dto.Seat == "" {
		dto.Seat = "spectator"
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNotAPlayer):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrNotYourTurn),
		errors.Is(err, domain.ErrOccupied),
		errors.Is(err, domain.ErrIllegalMove),
		errors.Is(err, domain.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorDTO{Error: err.Error()})
}

func (h *handlers) apiCreate(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		writeError(w, err)
		return
	}
	pid := playerID(r)
	if pid != "" {
		if _, joined, err := h.svc.Join(gs.ID, pid); err == nil {
			gs = joined
		}
	}
	writeJSON(w, http.StatusCreated, newStateDTO(*gs, pid))
}

func (h *handlers) apiGet(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, app.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newStateDTO(*gs, playerID(r)))
}

func (h *handlers) apiJoin(w http.ResponseWriter, r *http.Request) {
	pid := playerID(r)
	if pid == "" {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: "missing player id"})
		return
	}
	_, gs, err := h.svc.Join(chi.URLParam(r, "id"), pid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateDTO(*gs, pid))
}

func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.X == nil || req.Y == nil {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: "body must be {\"x\":int,\"y\":int}"})
		return
	}
	pid := playerID(r)
	gs, mv, err := h.svc.Play(chi.URLParam(r, "id"), pid, *req.X, *req.Y)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		State stateDTO `json:"state"`
		Move  moveDTO  `json:"move"`
	}{
		State: newStateDTO(*gs, pid),
		Move:  moveDTO{X: mv.Pos.X, Y: mv.Pos.Y, Player: colorName(mv.Player), Flipped: mv.Flipped},
	})
}

func (h *handlers) apiReset(w http.ResponseWriter, r *http.Request) {
	pid := playerID(r)
	gs, err := h.svc.Reset(chi.URLParam(r, "id"), pid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateDTO(*gs, pid))
}
