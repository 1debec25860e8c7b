package game

import (
	"strings"

	"github.com/discochess/openings/internal/pgn"
)

// OpeningName returns the last path segment of the ECOUrl tag, or the whole
// value when it has no slash. It returns false when the tag is missing or
// the segment is empty.
func OpeningName(tags pgn.Tags) (string, bool) {
	url, ok := tags.Get(pgn.TagECOURL)
	if !ok {
		return "", false
	}
	name := url[strings.LastIndexByte(url, '/')+1:]
	if name == "" {
		return "", false
	}
	return name, true
}
