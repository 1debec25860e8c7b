package game

import "github.com/notnil/chess"

// Outcome returns the outcome token of side, verbatim.
func Outcome(side chess.Color, g RawGame) string {
	if side == chess.Black {
		return g.Black.Result
	}
	return g.White.Result
}

// Accuracy returns the accuracy of side. It returns false when the game
// carries no accuracies; that is never reported as a zero score.
func Accuracy(side chess.Color, g RawGame) (float64, bool) {
	if g.Accuracies == nil {
		return 0, false
	}
	if side == chess.Black {
		return g.Accuracies.Black, true
	}
	return g.Accuracies.White, true
}
