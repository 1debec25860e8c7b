package pgn

import (
	"reflect"
	"testing"
)

const samplePGN = `[Event "Live Chess"]
[Site "Chess.com"]
[Date "2024.03.09"]
[White "Bar Baz"]
[Black "foo"]
[Result "0-1"]
[ECO "C50"]
[ECOUrl "https://www.chess.com/openings/Italian-Game"]
[TimeControl "180"]

1. e4 {[%clk 0:02:59.9]} 1... e5 {[%clk 0:02:59.1]} 2. Nf3 Nc6 3. Bc4 0-1
`

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Tags
	}{
		{
			name:  "three tag lines",
			input: "[Black \"foo\"]\n[White \"Bar Baz\"]\n[ECOUrl \"https://x/y/Italian-Game\"]",
			want: Tags{
				"Black":  "foo",
				"White":  "Bar Baz",
				"ECOUrl": "https://x/y/Italian-Game",
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  Tags{},
		},
		{
			name:  "moves only",
			input: "1. e4 e5 2. Nf3 Nc6 1-0",
			want:  Tags{},
		},
		{
			name:  "crlf line endings",
			input: "[White \"a\"]\r\n[Black \"b\"]\r\n",
			want:  Tags{"White": "a", "Black": "b"},
		},
		{
			name:  "leading whitespace",
			input: "  [White \"a\"]",
			want:  Tags{"White": "a"},
		},
		{
			name:  "empty value",
			input: `[Termination ""]`,
			want:  Tags{"Termination": ""},
		},
		{
			name:  "escaped quote",
			input: `[Event "The \"Big\" One"]`,
			want:  Tags{"Event": `The "Big" One`},
		},
		{
			name:  "repeated tag keeps last",
			input: "[White \"first\"]\n[White \"second\"]",
			want:  Tags{"White": "second"},
		},
		{
			name: "malformed lines dropped individually",
			input: "[White \"a\"]\n" +
				"[NoValue]\n" +
				"[Unquoted value]\n" +
				"[Unclosed \"value\"\n" +
				"[ \"nameless\"]\n" +
				"[Black \"b\"]",
			want: Tags{"White": "a", "Black": "b"},
		},
		{
			name:  "bracket not at line start",
			input: "1. e4 [White \"a\"]",
			want:  Tags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTags(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTags_FullGame(t *testing.T) {
	tags := ParseTags(samplePGN)

	checks := map[string]string{
		TagWhite:  "Bar Baz",
		TagBlack:  "foo",
		TagECO:    "C50",
		TagECOURL: "https://www.chess.com/openings/Italian-Game",
		"Result":  "0-1",
	}
	for name, want := range checks {
		got, ok := tags.Get(name)
		if !ok {
			t.Errorf("tag %s missing", name)
			continue
		}
		if got != want {
			t.Errorf("tag %s = %q, want %q", name, got, want)
		}
	}

	if len(tags) != 9 {
		t.Errorf("len(tags) = %d, want 9", len(tags))
	}
}

func BenchmarkParseTags(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ParseTags(samplePGN)
	}
}
