package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

const localPlayer = "local"

// Play runs an interactive game on in/out until the input ends, the user
// quits or ctx is cancelled. Each accepted move is answered by the computer.
func Play(ctx context.Context, svc *app.Service, in io.Reader, out io.Writer, r *Renderer, log zerolog.Logger) error {
	gs, err := svc.CreateGame(localPlayer)
	if err != nil {
		return err
	}
	id := gs.ID

	show := func(s *app.Session) {
		fmt.Fprint(out, "\n"+r.Board(s.Game.Board)+r.Status(*s))
	}
	show(gs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines, readErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = l
		}
		input := strings.ToLower(strings.TrimSpace(line))
		switch input {
		case "":
			continue
		case "q", "quit":
			return nil
		case "r", "restart":
			if gs, err = svc.Restart(id, localPlayer); err != nil {
				return err
			}
			show(gs)
			continue
		case "h", "hint":
			hints, err := svc.Hint(id)
			if err != nil {
				fmt.Fprint(out, r.Error(humanError(err)))
				continue
			}
			fmt.Fprintln(out, hintText(hints))
			continue
		}

		n, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprint(out, r.Error("enter a cell 1-9"))
			continue
		}
		gs, err = svc.Play(id, localPlayer, n-1)
		if err != nil {
			fmt.Fprint(out, r.Error(humanError(err)))
			continue
		}
		log.Debug().Int("cell", n-1).Str("board", gs.Game.Board.String()).Msg("turn played")
		show(gs)
	}
}

// readLines scans in on its own goroutine so a blocked read never holds
// up cancellation. The error channel receives the scan result before
// lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()
	return lines, errc
}

func humanError(err error) string {
	switch {
	case errors.Is(err, domain.ErrOccupied):
		return "that cell is taken"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "enter a cell 1-9"
	case errors.Is(err, domain.ErrGameOver):
		return "the game is over, r to restart"
	default:
		return err.Error()
	}
}

// hintText lists the cells that keep the best result for the human.
func hintText(hints []domain.MoveScore) string {
	best := domain.ScoreWin + 1
	for _, h := range hints {
		if h.Score < best {
			best = h.Score
		}
	}
	var cells []string
	for _, h := range hints {
		if h.Score == best {
			cells = append(cells, strconv.Itoa(h.Cell+1))
		}
	}
	verdict := "draw"
	switch best {
	case domain.ScoreLoss:
		verdict = "win"
	case domain.ScoreWin:
		verdict = "loss"
	}
	return fmt.Sprintf("best cells: %s (%s with perfect play)", strings.Join(cells, ", "), verdict)
}
