package domain

import (
	"errors"
	"strings"
	"testing"
)

// helper to apply a sequence of moves
func playMoves(t *testing.T, g *Game, moves [][2]int) {
	t.Helper()
	for i, m := range moves {
		if _, err := g.Play(m[0], m[1]); err != nil {
			t.Fatalf("move %d (%v) failed: %v", i, m, err)
		}
	}
}

func mustBoard(t *testing.T, rows ...string) Board {
	t.Helper()
	b, err := ParseBoard(rows...)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	return b
}

func TestNewGameInitialState(t *testing.T) {
	g := New()
	if g.Turn != Black {
		t.Fatalf("expected initial turn Black, got %v", g.Turn)
	}
	if g.Moves != 0 || g.Passes != 0 || g.Over || len(g.Skipped) != 0 {
		t.Fatalf("expected fresh counters, got %+v", g)
	}
	want := mustBoard(t,
		"........",
		"........",
		"........",
		"...WB...",
		"...BW...",
		"........",
		"........",
		"........",
	)
	if g.Board != want {
		t.Fatalf("unexpected opening:\n%s", g.Board)
	}
	if g.Status() != InProgress {
		t.Fatalf("expected InProgress, got %v", g.Status())
	}
}

func TestOpeningLegalMoves(t *testing.T) {
	g := New()
	got := g.LegalMoves()
	want := []Pos{{3, 2}, {2, 3}, {5, 4}, {4, 5}}
	if len(got) != len(want) {
		t.Fatalf("expected %d legal moves, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("legal move %d: want %v, got %v", i, want[i], got[i])
		}
	}
	// scanning has no side effects
	before := g
	_ = g.LegalMoves()
	if g.Board != before.Board || g.Turn != before.Turn {
		t.Fatalf("LegalMoves mutated the game")
	}
}

func TestFirstMoveFlipsOneDisc(t *testing.T) {
	g := New()
	mv, err := g.Play(2, 3)
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if len(mv.Flipped) != 1 || mv.Flipped[0] != (Pos{3, 3}) {
		t.Fatalf("expected single flip at (3,3), got %v", mv.Flipped)
	}
	if mv.Player != Black {
		t.Fatalf("expected Black move, got %v", mv.Player)
	}
	s := g.Score()
	if s.Black != 4 || s.White != 1 {
		t.Fatalf("expected 4-1, got %+v", s)
	}
	if g.Turn != White {
		t.Fatalf("expected turn to flip to White, got %v", g.Turn)
	}
	if g.Moves != 1 {
		t.Fatalf("expected 1 move, got %d", g.Moves)
	}
}

func TestPlayOutOfBounds(t *testing.T) {
	g := New()
	cases := [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {42, 42}}
	for _, m := range cases {
		if _, err := g.Play(m[0], m[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds for %v, got %v", m, err)
		}
	}
}

func TestPlayRejectionsLeaveStateUntouched(t *testing.T) {
	cases := []struct {
		name string
		x, y int
		want error
	}{
		{"occupied", 3, 3, ErrOccupied},
		{"flips nothing", 0, 0, ErrIllegalMove},
		{"adjacent but unbracketed", 2, 2, ErrIllegalMove},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			before := g
			if _, err := g.Play(tc.x, tc.y); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if g.Board != before.Board || g.Turn != before.Turn || g.Moves != before.Moves {
				t.Fatalf("rejected move changed state")
			}
		})
	}
}

func TestOccupiedCountGrowsByOne(t *testing.T) {
	g := New()
	for i := 0; i < 60 && !g.Over; i++ {
		moves := g.LegalMoves()
		if len(moves) == 0 {
			t.Fatalf("game running with no legal moves for %v", g.Turn)
		}
		m := moves[i%len(moves)]
		prev := g.Board.Occupied()
		prevOwn := g.Board.Count(g.Turn)
		mv, err := g.Play(m.X, m.Y)
		if err != nil {
			t.Fatalf("legal move %v rejected: %v", m, err)
		}
		if got := g.Board.Occupied(); got != prev+1 {
			t.Fatalf("occupied went %d -> %d", prev, got)
		}
		if got := g.Board.Count(mv.Player); got != prevOwn+1+len(mv.Flipped) {
			t.Fatalf("mover count went %d -> %d with %d flips", prevOwn, got, len(mv.Flipped))
		}
	}
}

func TestEveryLegalMoveFlips(t *testing.T) {
	g := New()
	playMoves(t, &g, [][2]int{{2, 3}, {2, 2}, {3, 2}, {4, 2}})
	legal := map[Pos]bool{}
	for _, m := range g.LegalMoves() {
		legal[m] = true
		if flips := g.Board.Flips(m, g.Turn); len(flips) == 0 {
			t.Fatalf("legal move %v flips nothing", m)
		}
	}
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			p := Pos{x, y}
			if g.Board.IsLegal(p, g.Turn) != legal[p] {
				t.Fatalf("IsLegal(%v) disagrees with LegalMoves", p)
			}
		}
	}
	if g.Board.IsLegal(Pos{-1, 0}, g.Turn) {
		t.Fatalf("off-board cell reported legal")
	}
}

func TestNoPartialFlipOnOpenRay(t *testing.T) {
	// Black at (0,0). East ray W W then empty, south ray W W then B.
	b := mustBoard(t,
		".WW.....",
		"W.......",
		"W.......",
		"B.......",
		"........",
		"........",
		"........",
		".......W",
	)
	g := FromBoard(b, Black)
	if g.Turn != Black {
		t.Fatalf("expected Black to move, got %v", g.Turn)
	}
	mv, err := g.Play(0, 0)
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if len(mv.Flipped) != 2 {
		t.Fatalf("expected two flips, got %v", mv.Flipped)
	}
	if g.Board[0][1] != White || g.Board[0][2] != White {
		t.Fatalf("open east ray should be untouched:\n%s", g.Board)
	}
	if g.Board[1][0] != Black || g.Board[2][0] != Black {
		t.Fatalf("closed south ray should be flipped:\n%s", g.Board)
	}
}

func TestRayOffBoardConfirmsNothing(t *testing.T) {
	b := mustBoard(t,
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"BWWWWWW.",
	)
	if moves := b.LegalMoves(White); len(moves) != 0 {
		t.Fatalf("White should have no moves, got %v", moves)
	}
	got := b.LegalMoves(Black)
	if len(got) != 1 || got[0] != (Pos{7, 7}) {
		t.Fatalf("expected only (7,7) for Black, got %v", got)
	}
}

func TestLegalMovesDeduplicated(t *testing.T) {
	// (1,1) is confirmed in three directions.
	b := mustBoard(t,
		"........",
		"..WB....",
		".WW.....",
		".B.B....",
		"........",
		"........",
		"........",
		"........",
	)
	seen := map[Pos]int{}
	for _, m := range b.LegalMoves(Black) {
		seen[m]++
	}
	if seen[Pos{1, 1}] != 1 {
		t.Fatalf("expected (1,1) exactly once, got %d", seen[Pos{1, 1}])
	}
	for p, n := range seen {
		if n != 1 {
			t.Fatalf("%v listed %d times", p, n)
		}
	}
}

func TestSingleSkipHandsTurnBack(t *testing.T) {
	// White has no move, Black does.
	b := mustBoard(t,
		"BW......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	g := FromBoard(b, White)
	if g.Over {
		t.Fatalf("game should continue")
	}
	if g.Turn != Black || g.Passes != 1 || g.Status() != SkippedOnce {
		t.Fatalf("expected Black after one skip, got turn=%v passes=%d", g.Turn, g.Passes)
	}
	if len(g.Skipped) != 1 || g.Skipped[0] != White {
		t.Fatalf("expected White skip notice, got %v", g.Skipped)
	}
	if _, err := g.Play(2, 0); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if !g.Over {
		t.Fatalf("board is all Black, game should be over")
	}
	if g.Winner() != Black {
		t.Fatalf("expected Black to win, got %v", g.Winner())
	}
}

func TestDoublePassEndsGame(t *testing.T) {
	b := mustBoard(t,
		"BB......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"......WW",
		".......W",
	)
	g := FromBoard(b, Black)
	if !g.IsTerminal() || g.Status() != GameOver {
		t.Fatalf("expected game over after two skips, got passes=%d", g.Passes)
	}
	if g.Passes != 2 || len(g.Skipped) != 2 {
		t.Fatalf("expected two skips, got passes=%d skipped=%v", g.Passes, g.Skipped)
	}
	s := g.Score()
	if s.Black != 2 || s.White != 3 || g.Winner() != White {
		t.Fatalf("expected White 3-2, got %+v winner=%v", s, g.Winner())
	}
	if got := g.LegalMoves(); len(got) != 0 {
		t.Fatalf("expected no legal moves once over, got %v", got)
	}
}

func TestDrawOnEqualCount(t *testing.T) {
	b := mustBoard(t,
		"BB......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"......WW",
	)
	g := FromBoard(b, White)
	if !g.Over {
		t.Fatalf("expected game over")
	}
	if g.Winner() != Empty {
		t.Fatalf("expected draw, got %v", g.Winner())
	}
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
	b := mustBoard(t,
		"B.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		".......W",
	)
	g := FromBoard(b, Black)
	if _, err := g.Play(1, 0); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if _, err := g.Play(-1, 0); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver before bounds check, got %v", err)
	}
}

func TestResetRestoresOpening(t *testing.T) {
	g := New()
	playMoves(t, &g, [][2]int{{2, 3}, {2, 2}, {3, 2}})
	g.Reset()
	fresh := New()
	if g.Board != fresh.Board || g.Turn != fresh.Turn || g.Moves != 0 || g.Passes != 0 || g.Over || g.Skipped != nil {
		t.Fatalf("reset did not restore opening: %+v", g)
	}

	over := FromBoard(Board{}, Black)
	if !over.Over {
		t.Fatalf("empty board should be over")
	}
	over.Reset()
	if over.Board != fresh.Board || over.Over {
		t.Fatalf("reset from terminal state failed")
	}
}

func TestParseBoardRoundTrip(t *testing.T) {
	g := New()
	b, err := ParseBoard(strings.Split(strings.TrimSuffix(g.Board.String(), "\n"), "\n")...)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if b != g.Board {
		t.Fatalf("round trip mismatch")
	}
	if _, err := ParseBoard("........"); err == nil {
		t.Fatalf("expected error for short diagram")
	}
}
