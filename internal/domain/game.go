package domain

import (
	"errors"
	"fmt"
)

// Turn says which side moves next.
type Turn uint8

const (
	HumanToMove Turn = iota
	ComputerToMove
)

func (t Turn) String() string {
	if t == ComputerToMove {
		return "computer"
	}
	return "human"
}

// Mark is the cell value placed by the side to move.
func (t Turn) Mark() Cell {
	if t == ComputerToMove {
		return Computer
	}
	return Human
}

func turnOf(mark Cell) Turn {
	if mark == Computer {
		return ComputerToMove
	}
	return HumanToMove
}

// Game holds the current state of a match against the computer.
// It is a plain value: every operation returns the next state and leaves
// the receiver untouched.
type Game struct {
	Board    Board
	Turn     Turn
	Outcome  Outcome
	Moves    int
	LastMove int
}

// Errors returned by domain operations. Every human move rejection matches
// ErrInvalidMove and every computer move rejection matches ErrInvalidState.
var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrInvalidState = errors.New("invalid state")

	ErrGameOver    = fmt.Errorf("%w: game over", ErrInvalidMove)
	ErrNotYourTurn = fmt.Errorf("%w: not your turn", ErrInvalidMove)
	ErrOutOfBounds = fmt.Errorf("%w: out of bounds", ErrInvalidMove)
	ErrOccupied    = fmt.Errorf("%w: cell occupied", ErrInvalidMove)

	ErrStateTerminal   = fmt.Errorf("%w: game over", ErrInvalidState)
	ErrNotComputerTurn = fmt.Errorf("%w: not the computer's turn", ErrInvalidState)
)

// New returns an empty game with the human to move.
func New() Game {
	return Game{Turn: HumanToMove, Outcome: Ongoing, LastMove: -1}
}

// Over reports whether the game has reached a win or a draw.
func (g Game) Over() bool { return g.Outcome.Terminal() }

// PlayHuman places the human's mark at idx (0..8).
func (g Game) PlayHuman(idx int) (Game, error) {
	if g.Over() {
		return g, ErrGameOver
	}
	if g.Turn != HumanToMove {
		return g, ErrNotYourTurn
	}
	if idx < 0 || idx >= len(g.Board) {
		return g, ErrOutOfBounds
	}
	if g.Board[idx] != Empty {
		return g, ErrOccupied
	}
	return g.place(idx, Human), nil
}

// PlayComputer lets the computer answer with its best move.
func (g Game) PlayComputer() (Game, error) {
	if g.Over() {
		return g, ErrStateTerminal
	}
	if g.Turn != ComputerToMove {
		return g, ErrNotComputerTurn
	}
	idx, ok := BestMove(g.Board)
	if !ok {
		// an ongoing game always has an empty cell
		panic(fmt.Sprintf("domain: no move available on ongoing board %s", g.Board))
	}
	return g.place(idx, Computer), nil
}

// Reset returns a fresh game.
func (g Game) Reset() Game { return New() }

func (g Game) place(idx int, mark Cell) Game {
	g.Board[idx] = mark
	g.Moves++
	g.LastMove = idx
	g.Outcome = Evaluate(g.Board)
	if g.Outcome.Terminal() {
		return g
	}
	g.Turn = turnOf(mark.Opponent())
	return g
}

// NewGame, ApplyHumanMove, ApplyComputerMove and Reset form the
// state-threading interface used by presentation layers.

func NewGame() Game { return New() }

func ApplyHumanMove(g Game, idx int) (Game, error) { return g.PlayHuman(idx) }

func ApplyComputerMove(g Game) (Game, error) { return g.PlayComputer() }

func Reset(Game) Game { return New() }
