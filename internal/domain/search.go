package domain

// Score values of a finished position, from the computer's point of view.
const (
	ScoreLoss = -1
	ScoreDraw = 0
	ScoreWin  = 1
)

// Score computes the minimax value of b with the given side to move:
// the computer maximizes, the human minimizes. The whole remaining game
// tree is searched; each branch plays on its own copy of the board.
func Score(b Board, maximizing bool) int {
	switch Evaluate(b) {
	case ComputerWins:
		return ScoreWin
	case HumanWins:
		return ScoreLoss
	case Draw:
		return ScoreDraw
	}

	mark, best := Human, ScoreWin+1
	if maximizing {
		mark, best = Computer, ScoreLoss-1
	}
	for i, c := range b {
		if c != Empty {
			continue
		}
		child := b
		child[i] = mark
		s := Score(child, !maximizing)
		if maximizing && s > best || !maximizing && s < best {
			best = s
		}
	}
	return best
}

// BestMove picks the computer's move on b. Ties go to the lowest index.
// It reports false when the board has no empty cell.
func BestMove(b Board) (int, bool) {
	move, best := -1, ScoreLoss-1
	for i, c := range b {
		if c != Empty {
			continue
		}
		child := b
		child[i] = Computer
		if s := Score(child, false); s > best {
			move, best = i, s
		}
	}
	return move, move >= 0
}

// MoveScore is the value of playing Cell, from the computer's point of view.
type MoveScore struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
}

// Analyze scores every legal move for side on b. Scores stay in the
// computer's frame, so the human prefers the lowest.
func Analyze(b Board, side Cell) []MoveScore {
	if side == Empty || Evaluate(b).Terminal() {
		return nil
	}
	out := make([]MoveScore, 0, 9)
	for _, i := range b.Empties() {
		child := b
		child[i] = side
		out = append(out, MoveScore{Cell: i, Score: Score(child, side.Opponent() == Computer)})
	}
	return out
}
