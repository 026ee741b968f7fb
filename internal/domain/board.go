package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Cell represents a board cell state. A player is identified by the sign of
// its discs, so the opponent of p is -p.
type Cell int8

const (
	Empty Cell = 0
	Black Cell = 1
	White Cell = -1
)

// Opponent returns the other player.
func (c Cell) Opponent() Cell { return -c }

func (c Cell) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "Empty"
	}
}

// Size is the board edge length.
const Size = 8

// Board is a fixed 8x8 grid indexed [y][x].
type Board [Size][Size]Cell

// Pos is a zero-indexed (column, row) coordinate, origin top-left.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// king-move unit steps
var directions = [8]Pos{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// InBounds reports whether (x, y) lies on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// Flips returns the opposing discs that placing p's disc at pos would flip.
// Rays that run off the board or end on an empty cell contribute nothing.
func (b *Board) Flips(pos Pos, p Cell) []Pos {
	var out []Pos
	for _, d := range directions {
		x, y := pos.X+d.X, pos.Y+d.Y
		run := 0
		for InBounds(x, y) && b[y][x] == -p {
			x += d.X
			y += d.Y
			run++
		}
		if run == 0 || !InBounds(x, y) || b[y][x] != p {
			continue
		}
		for i := 1; i <= run; i++ {
			out = append(out, Pos{pos.X + d.X*i, pos.Y + d.Y*i})
		}
	}
	return out
}

func (b *Board) closesRun(pos Pos, p Cell) bool {
	for _, d := range directions {
		x, y := pos.X+d.X, pos.Y+d.Y
		if !InBounds(x, y) || b[y][x] != -p {
			continue
		}
		for InBounds(x, y) && b[y][x] == -p {
			x += d.X
			y += d.Y
		}
		if InBounds(x, y) && b[y][x] == p {
			return true
		}
	}
	return false
}

// IsLegal reports whether p may place a disc at pos.
func (b *Board) IsLegal(pos Pos, p Cell) bool {
	if !InBounds(pos.X, pos.Y) || b[pos.Y][pos.X] != Empty {
		return false
	}
	return b.closesRun(pos, p)
}

// LegalMoves lists every empty cell where p would flip at least one disc,
// in row-major order. It never mutates the board.
func (b *Board) LegalMoves(p Cell) []Pos {
	var out []Pos
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b[y][x] == Empty && b.closesRun(Pos{x, y}, p) {
				out = append(out, Pos{x, y})
			}
		}
	}
	return out
}

// Count returns the number of discs held by p.
func (b *Board) Count(p Cell) int {
	n := 0
	for y := range b {
		for x := range b[y] {
			if b[y][x] == p {
				n++
			}
		}
	}
	return n
}

// Occupied returns the number of non-empty cells.
func (b *Board) Occupied() int {
	return Size*Size - b.Count(Empty)
}

var errBadDiagram = errors.New("bad board diagram")

// ParseBoard reads a diagram of Size rows, each Size cells wide. '.' is empty,
// 'B' or 'X' is Black, 'W' or 'O' is White. Spaces are ignored.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: want %d rows, got %d", errBadDiagram, Size, len(rows))
	}
	for y, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells", errBadDiagram, y, len(row))
		}
		for x, ch := range row {
			switch ch {
			case '.':
				b[y][x] = Empty
			case 'B', 'X':
				b[y][x] = Black
			case 'W', 'O':
				b[y][x] = White
			default:
				return b, fmt.Errorf("%w: unexpected %q at (%d,%d)", errBadDiagram, ch, x, y)
			}
		}
	}
	return b, nil
}

// String renders the board in the ParseBoard format, one row per line.
func (b Board) String() string {
	var sb strings.Builder
	for y := range b {
		for x := range b[y] {
			switch b[y][x] {
			case Black:
				sb.WriteByte('B')
			case White:
				sb.WriteByte('W')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
