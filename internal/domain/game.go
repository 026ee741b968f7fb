package domain

import "errors"

// Status is the turn state machine position.
type Status uint8

const (
	InProgress Status = iota
	SkippedOnce
	GameOver
)

func (s Status) String() string {
	switch s {
	case SkippedOnce:
		return "skipped"
	case GameOver:
		return "over"
	default:
		return "in_progress"
	}
}

// Game holds the current state of a Reversi match.
type Game struct {
	Board  Board
	Turn   Cell
	Passes int
	Over   bool
	// Skipped lists the players auto-passed since the last successful move.
	Skipped []Cell
	Moves   int
}

// Move describes an applied placement.
type Move struct {
	Pos     Pos
	Player  Cell
	Flipped []Pos
}

// Score is the disc count per player.
type Score struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// Winner returns the player with more discs, or Empty on a draw.
func (s Score) Winner() Cell {
	switch {
	case s.Black > s.White:
		return Black
	case s.White > s.Black:
		return White
	default:
		return Empty
	}
}

// Errors returned by domain operations.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrIllegalMove = errors.New("move flips nothing")
	ErrGameOver    = errors.New("game over")
)

// New returns the canonical opening with Black to move.
func New() Game {
	var b Board
	b[3][3], b[4][4] = White, White
	b[3][4], b[4][3] = Black, Black
	return Game{Board: b, Turn: Black}
}

// FromBoard starts a game from an arbitrary position with turn to move.
// Players without a legal move are skipped immediately. An Empty turn means Black.
func FromBoard(b Board, turn Cell) Game {
	if turn == Empty {
		turn = Black
	}
	g := Game{Board: b, Turn: turn}
	g.resolvePasses()
	return g
}

// Reset puts g back to the opening position.
func (g *Game) Reset() { *g = New() }

// LegalMoves lists the cells the side to move may play. Empty once over.
func (g *Game) LegalMoves() []Pos {
	if g.Over {
		return nil
	}
	return g.Board.LegalMoves(g.Turn)
}

// Play attempts to place the current player's disc at column x, row y (0..7).
// Rejected attempts leave the game untouched.
func (g *Game) Play(x, y int) (Move, error) {
	if g.Over {
		return Move{}, ErrGameOver
	}
	if !InBounds(x, y) {
		return Move{}, ErrOutOfBounds
	}
	if g.Board[y][x] != Empty {
		return Move{}, ErrOccupied
	}
	pos := Pos{x, y}
	flips := g.Board.Flips(pos, g.Turn)
	if len(flips) == 0 {
		return Move{}, ErrIllegalMove
	}

	for _, f := range flips {
		g.Board[f.Y][f.X] = g.Turn
	}
	g.Board[y][x] = g.Turn
	mv := Move{Pos: pos, Player: g.Turn, Flipped: flips}

	g.Moves++
	g.Passes = 0
	g.Skipped = nil
	g.Turn = g.Turn.Opponent()
	g.resolvePasses()
	return mv, nil
}

// resolvePasses skips players with no legal move. Two passes in a row end the game.
func (g *Game) resolvePasses() {
	for !g.Over && len(g.Board.LegalMoves(g.Turn)) == 0 {
		g.Skipped = append(g.Skipped, g.Turn)
		g.Turn = g.Turn.Opponent()
		g.Passes++
		if g.Passes > 1 {
			g.Over = true
		}
	}
}

// IsTerminal reports whether the game accepts no further moves.
func (g *Game) IsTerminal() bool { return g.Over }

// Status maps the pass counter and terminal flag to a Status.
func (g *Game) Status() Status {
	switch {
	case g.Over:
		return GameOver
	case g.Passes > 0:
		return SkippedOnce
	default:
		return InProgress
	}
}

// Score counts discs per player.
func (g *Game) Score() Score {
	return Score{Black: g.Board.Count(Black), White: g.Board.Count(White)}
}

// Winner is Empty while the game is running or when it ended in a draw.
func (g *Game) Winner() Cell {
	if !g.Over {
		return Empty
	}
	return g.Score().Winner()
}
