package domain

import (
	"fmt"
	"strings"
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	Human
	Computer
)

// String renders the human as X and the computer as O.
func (c Cell) String() string {
	switch c {
	case Human:
		return "X"
	case Computer:
		return "O"
	default:
		return " "
	}
}

// Opponent returns the other mark; Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Human:
		return Computer
	case Computer:
		return Human
	default:
		return Empty
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Lines are the rows, columns and diagonals that win the game.
var Lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Index maps row r and column c (0..2) to a cell index.
func Index(r, c int) (int, bool) {
	if r < 0 || r > 2 || c < 0 || c > 2 {
		return 0, false
	}
	return r*3 + c, true
}

// Coords is the inverse of Index.
func Coords(idx int) (r, c int) {
	return idx / 3, idx % 3
}

// Empties lists the empty cells in ascending order.
func (b Board) Empties() []int {
	out := make([]int, 0, len(b))
	for i, c := range b {
		if c == Empty {
			out = append(out, i)
		}
	}
	return out
}

// Count returns the number of occupied cells.
func (b Board) Count() int {
	n := 0
	for _, c := range b {
		if c != Empty {
			n++
		}
	}
	return n
}

func (b Board) Full() bool { return b.Count() == len(b) }

// String encodes the board as nine characters, '_' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for _, c := range b {
		if c == Empty {
			sb.WriteByte('_')
		} else {
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}

// ParseBoard decodes the String form. '.' and ' ' are also read as empty.
func ParseBoard(s string) (Board, error) {
	var b Board
	if len(s) != len(b) {
		return b, fmt.Errorf("board must have %d cells, got %d", len(b), len(s))
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'X', 'x':
			b[i] = Human
		case 'O', 'o':
			b[i] = Computer
		case '_', '.', ' ':
			b[i] = Empty
		default:
			return b, fmt.Errorf("invalid cell %q at %d", s[i], i)
		}
	}
	return b, nil
}
