// Package pgn extracts header tag pairs from PGN game text.
package pgn

import "strings"

// Well-known tag names.
const (
	TagWhite  = "White"
	TagBlack  = "Black"
	TagECO    = "ECO"
	TagECOURL = "ECOUrl"
)

// Tags maps tag names to their unquoted values.
type Tags map[string]string

// Get returns the value of the named tag and whether it was present.
func (t Tags) Get(name string) (string, bool) {
	v, ok := t[name]
	return v, ok
}

// scanState is the position of the line scanner within a tag pair.
type scanState int

const (
	seekOpen scanState = iota
	readKey
	seekQuote
	readValue
	seekClose
)

// ParseTags extracts every well-formed [Name "Value"] line from pgn.
//
// Lines that are not tag lines are skipped, and a malformed tag line drops
// only that line. When a tag repeats, the last occurrence wins.
func ParseTags(pgn string) Tags {
	tags := make(Tags)
	for len(pgn) > 0 {
		line := pgn
		if i := strings.IndexByte(pgn, '\n'); i >= 0 {
			line, pgn = pgn[:i], pgn[i+1:]
		} else {
			pgn = ""
		}
		if name, value, ok := parseLine(line); ok {
			tags[name] = value
		}
	}
	return tags
}

// parseLine scans a single line. The value runs from the first quote after
// the name to the last quote before the closing bracket.
func parseLine(line string) (name, value string, ok bool) {
	line = strings.TrimRight(line, "\r")

	state := seekOpen
	keyStart, valueStart, valueEnd := -1, -1, -1

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch state {
		case seekOpen:
			switch c {
			case ' ', '\t':
			case '[':
				state = readKey
			default:
				return "", "", false
			}
		case readKey:
			switch {
			case c == ' ' || c == '\t':
				if keyStart >= 0 {
					name = line[keyStart:i]
					state = seekQuote
				}
			case c == '"' || c == ']':
				return "", "", false
			case keyStart < 0:
				keyStart = i
			}
		case seekQuote:
			switch c {
			case ' ', '\t':
			case '"':
				valueStart = i + 1
				state = readValue
			default:
				return "", "", false
			}
		case readValue:
			switch c {
			case '\\':
				// Skip the escaped byte.
				i++
			case '"':
				valueEnd = i
				state = seekClose
			}
		case seekClose:
			switch c {
			case ']':
				return name, unescape(line[valueStart:valueEnd]), true
			case '"':
				valueEnd = i
			}
		}
	}
	return "", "", false
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
