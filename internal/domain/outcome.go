package domain

// Outcome is the result of evaluating a board.
type Outcome uint8

const (
	Ongoing Outcome = iota
	HumanWins
	ComputerWins
	Draw
)

func (o Outcome) Terminal() bool { return o != Ongoing }

func (o Outcome) String() string {
	switch o {
	case HumanWins:
		return "human_wins"
	case ComputerWins:
		return "computer_wins"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Evaluate reports whether someone has completed a line, the board is
// drawn, or play continues. The first completed line in Lines order decides.
func Evaluate(b Board) Outcome {
	if ln, ok := WinningLine(b); ok {
		switch b[ln[0]] {
		case Human:
			return HumanWins
		case Computer:
			return ComputerWins
		}
	}
	if b.Full() {
		return Draw
	}
	return Ongoing
}

// WinningLine returns the first line held entirely by one mark.
func WinningLine(b Board) ([3]int, bool) {
	for _, ln := range Lines {
		if b[ln[0]] != Empty && b[ln[0]] == b[ln[1]] && b[ln[1]] == b[ln[2]] {
			return ln, true
		}
	}
	return [3]int{}, false
}
