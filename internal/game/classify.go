package game

import (
	"strings"

	"github.com/notnil/chess"

	"github.com/discochess/openings/internal/pgn"
)

// IdentifySide reports which color username played according to the
// Black and White tags. Matching ignores case and Black is checked first.
// It returns chess.NoColor and false when username played neither side.
func IdentifySide(tags pgn.Tags, username string) (chess.Color, bool) {
	if black, ok := tags.Get(pgn.TagBlack); ok && strings.EqualFold(black, username) {
		return chess.Black, true
	}
	if white, ok := tags.Get(pgn.TagWhite); ok && strings.EqualFold(white, username) {
		return chess.White, true
	}
	return chess.NoColor, false
}

// ParseColor converts a color name ("white", "black", "w", "b") to a
// chess.Color, ignoring case. Anything else yields chess.NoColor.
func ParseColor(s string) chess.Color {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return chess.White
	case "black", "b":
		return chess.Black
	}
	return chess.NoColor
}

// MatchesFilters reports whether a game played as side with the given time
// class satisfies the requested color and time class. Both comparisons
// ignore case. An empty request matches anything.
func MatchesFilters(side chess.Color, color, gameTimeClass, timeClass string) bool {
	if color != "" && ParseColor(color) != side {
		return false
	}
	if timeClass != "" && !strings.EqualFold(gameTimeClass, timeClass) {
		return false
	}
	return true
}
