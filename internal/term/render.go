// Package term draws games for a line-oriented terminal session.
package term

import (
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

// Renderer styles boards for one output. Colours degrade to plain text
// when the output profile is Ascii.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

func (r *Renderer) cell(b domain.Board, idx int, win bool) string {
	var s termenv.Style
	switch b[idx] {
	case domain.Human:
		s = r.out.String("X").Foreground(r.out.Color("12")).Bold()
	case domain.Computer:
		s = r.out.String("O").Foreground(r.out.Color("9")).Bold()
	default:
		// cells are numbered 1..9 for input
		return r.out.String(strconv.Itoa(idx + 1)).Faint().String()
	}
	if win {
		s = s.Reverse()
	}
	return s.String()
}

// Board draws the grid with empty cells numbered and the winning line
// highlighted.
func (r *Renderer) Board(b domain.Board) string {
	var win [9]bool
	if ln, ok := domain.WinningLine(b); ok {
		for _, i := range ln {
			win[i] = true
		}
	}
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			idx, _ := domain.Index(row, col)
			if col > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + r.cell(b, idx, win[idx]) + " ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Status is a one-line summary of the game and the running score.
func (r *Renderer) Status(s app.Session) string {
	var msg termenv.Style
	switch s.Game.Outcome {
	case domain.HumanWins:
		msg = r.out.String("You win!").Foreground(r.out.Color("10")).Bold()
	case domain.ComputerWins:
		msg = r.out.String("Computer wins.").Foreground(r.out.Color("9")).Bold()
	case domain.Draw:
		msg = r.out.String("It's a draw.").Bold()
	default:
		msg = r.out.String("Your move (1-9, h for hint, r to restart, q to quit)")
	}
	return msg.String() + "  [you " + strconv.Itoa(s.Score.HumanWins) +
		" / computer " + strconv.Itoa(s.Score.ComputerWins) +
		" / draws " + strconv.Itoa(s.Score.Draws) + "]\n"
}

// Error styles a rejected input.
func (r *Renderer) Error(msg string) string {
	return r.out.String(msg).Foreground(r.out.Color("11")).String() + "\n"
}
