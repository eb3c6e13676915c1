package domain

import (
	"errors"
	"testing"
)

// helper to apply a human/computer exchange for each cell
func playHuman(t *testing.T, g Game, cells ...int) Game {
	t.Helper()
	for i, idx := range cells {
		var err error
		if g, err = g.PlayHuman(idx); err != nil {
			t.Fatalf("human move %d (%d) failed: %v", i, idx, err)
		}
		if g.Over() {
			return g
		}
		if g, err = g.PlayComputer(); err != nil {
			t.Fatalf("computer reply %d failed: %v", i, err)
		}
		if g.Over() {
			return g
		}
	}
	return g
}

func TestNewGameInitialState(t *testing.T) {
	g := New()
	if g.Turn != HumanToMove {
		t.Fatalf("expected human to move first, got %v", g.Turn)
	}
	if g.Moves != 0 || g.LastMove != -1 {
		t.Fatalf("expected no moves, got moves=%d last=%d", g.Moves, g.LastMove)
	}
	if g.Over() || g.Outcome != Ongoing {
		t.Fatalf("expected ongoing game, got %v", g.Outcome)
	}
	for i, c := range g.Board {
		if c != Empty {
			t.Fatalf("expected empty board, cell %d = %v", i, c)
		}
	}
}

func TestPlayHumanOutOfBounds(t *testing.T) {
	g := New()
	for _, idx := range []int{-1, 9, 42} {
		if _, err := g.PlayHuman(idx); !errors.Is(err, ErrOutOfBounds) || !errors.Is(err, ErrInvalidMove) {
			t.Fatalf("expected ErrOutOfBounds for %d, got %v", idx, err)
		}
	}
}

func TestPlayHumanTwiceIsNotYourTurn(t *testing.T) {
	g, err := New().PlayHuman(0)
	if err != nil {
		t.Fatalf("first move failed: %v", err)
	}
	if g.Turn != ComputerToMove {
		t.Fatalf("expected computer to move, got %v", g.Turn)
	}
	next, err := g.PlayHuman(0)
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove on second human move, got %v", err)
	}
	if next != g {
		t.Fatalf("rejected move must not change state")
	}
}

func TestPlayHumanOccupied(t *testing.T) {
	g := playHuman(t, New(), 0)
	if _, err := g.PlayHuman(0); !errors.Is(err, ErrOccupied) {
		t.Fatalf("expected ErrOccupied, got %v", err)
	}
	if _, err := g.PlayHuman(g.LastMove); !errors.Is(err, ErrOccupied) {
		t.Fatalf("expected ErrOccupied on computer's cell, got %v", err)
	}
}

func TestHumanThenComputerMove(t *testing.T) {
	g := playHuman(t, New(), 0)
	if g.Board.Count() != 2 {
		t.Fatalf("expected 2 occupied cells, got %d (%s)", g.Board.Count(), g.Board)
	}
	if g.Turn != HumanToMove || g.Outcome != Ongoing {
		t.Fatalf("expected human to move in ongoing game, got %v/%v", g.Turn, g.Outcome)
	}
	if g.Moves != 2 {
		t.Fatalf("expected 2 moves, got %d", g.Moves)
	}
	if g.Board[g.LastMove] != Computer {
		t.Fatalf("last move should be the computer's, got %v at %d", g.Board[g.LastMove], g.LastMove)
	}
}

func TestTurnPassesToTheOtherMark(t *testing.T) {
	g := New()
	for !g.Over() {
		mover := g.Turn.Mark()
		var err error
		if g.Turn == HumanToMove {
			g, err = g.PlayHuman(g.Board.Empties()[0])
		} else {
			g, err = g.PlayComputer()
		}
		if err != nil {
			t.Fatalf("move %d failed: %v", g.Moves, err)
		}
		if g.Board[g.LastMove] != mover {
			t.Fatalf("cell %d holds %v, want %v", g.LastMove, g.Board[g.LastMove], mover)
		}
		if !g.Over() && g.Turn.Mark() != mover.Opponent() {
			t.Fatalf("after %v moved, turn is %v", mover, g.Turn)
		}
	}
}

func TestPlayComputerRejectedOnHumanTurn(t *testing.T) {
	g := New()
	next, err := g.PlayComputer()
	if !errors.Is(err, ErrNotComputerTurn) || !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrNotComputerTurn, got %v", err)
	}
	if next != g {
		t.Fatalf("rejected computer move must not change state")
	}
}

func TestReceiverIsNotMutated(t *testing.T) {
	g := New()
	next, err := g.PlayHuman(4)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if g.Board[4] != Empty || g.Moves != 0 {
		t.Fatalf("original game changed: %s", g.Board)
	}
	if next.Board[4] != Human {
		t.Fatalf("expected human mark at 4")
	}
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
	// O holds 3 and 4 with the computer to move: it completes the middle row.
	b, err := ParseBoard("X_XOO__X_")
	if err != nil {
		t.Fatal(err)
	}
	g := Game{Board: b, Turn: ComputerToMove, Moves: 5, LastMove: 7}
	g, err = g.PlayComputer()
	if err != nil {
		t.Fatalf("computer move failed: %v", err)
	}
	if g.Outcome != ComputerWins || g.LastMove != 5 {
		t.Fatalf("expected computer win at 5, got %v at %d", g.Outcome, g.LastMove)
	}
	if g.Turn != ComputerToMove {
		t.Fatalf("turn must freeze on terminal outcome, got %v", g.Turn)
	}
	if _, err := g.PlayHuman(1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if _, err := g.PlayComputer(); !errors.Is(err, ErrStateTerminal) {
		t.Fatalf("expected ErrStateTerminal, got %v", err)
	}
}

func TestHumanWinFreezesGame(t *testing.T) {
	b, _ := ParseBoard("XX_OO____")
	g := Game{Board: b, Turn: HumanToMove, Moves: 4, LastMove: 4}
	g, err := g.PlayHuman(2)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if g.Outcome != HumanWins || g.Turn != HumanToMove {
		t.Fatalf("expected frozen human win, got %v/%v", g.Outcome, g.Turn)
	}
}

func TestResetReturnsInitialState(t *testing.T) {
	g := playHuman(t, New(), 4)
	g = playHuman(t, g, g.Board.Empties()[0])
	if got := g.Reset(); got != New() {
		t.Fatalf("expected initial state after reset, got %+v", got)
	}
	if got := Reset(g); got != NewGame() {
		t.Fatalf("expected initial state after Reset, got %+v", got)
	}
}

func TestComputerNeverLoses(t *testing.T) {
	var games, draws int
	var walk func(g Game)
	walk = func(g Game) {
		if g.Over() {
			games++
			if g.Outcome == HumanWins {
				t.Fatalf("human won with board %s", g.Board)
			}
			if g.Outcome == Draw {
				draws++
			}
			return
		}
		for _, idx := range g.Board.Empties() {
			next, err := ApplyHumanMove(g, idx)
			if err != nil {
				t.Fatalf("human move %d on %s: %v", idx, g.Board, err)
			}
			if !next.Over() {
				if next, err = ApplyComputerMove(next); err != nil {
					t.Fatalf("computer move on %s: %v", next.Board, err)
				}
			}
			walk(next)
		}
	}
	walk(New())
	if games == 0 || draws == 0 {
		t.Fatalf("expected some finished games and draws, got games=%d draws=%d", games, draws)
	}
}
