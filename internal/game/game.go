// Package game holds the per-game record supplied by a monthly archive and
// the rules that classify one game relative to a target player.
package game

import (
	"encoding/json"
	"fmt"
)

// Player is one side's sub-record of a game.
type Player struct {
	Username string `json:"username"`
	Rating   int    `json:"rating,omitempty"`
	// Result is the upstream outcome token for this side, e.g. "win",
	// "resigned", "timeout", "checkmated", "agreed".
	Result string `json:"result"`
}

// Accuracies holds the engine accuracy score of each side.
type Accuracies struct {
	White float64 `json:"white"`
	Black float64 `json:"black"`
}

// RawGame is a single finished game as returned by a monthly archive.
type RawGame struct {
	URL         string      `json:"url,omitempty"`
	PGN         string      `json:"pgn"`
	TimeControl string      `json:"time_control,omitempty"`
	TimeClass   string      `json:"time_class"`
	Rules       string      `json:"rules,omitempty"`
	Rated       bool        `json:"rated,omitempty"`
	EndTime     int64       `json:"end_time,omitempty"`
	White       Player      `json:"white"`
	Black       Player      `json:"black"`
	Accuracies  *Accuracies `json:"accuracies,omitempty"`
}

// Batch is the monthly archive document.
type Batch struct {
	Games []RawGame `json:"games"`
}

// DecodeBatch decodes a monthly archive document.
func DecodeBatch(data []byte) ([]RawGame, error) {
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	return b.Games, nil
}
