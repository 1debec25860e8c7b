package codec_test

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/discochess/openings/internal/codec"
	"github.com/discochess/openings/internal/codec/gzipcodec"
	"github.com/discochess/openings/internal/codec/noopcodec"
	"github.com/discochess/openings/internal/codec/zstdcodec"
)

func allCodecs() []codec.Codec {
	return []codec.Codec{
		zstdcodec.New(),
		zstdcodec.NewWithLevel(zstd.SpeedBestCompression),
		gzipcodec.New(),
		gzipcodec.NewWithLevel(gzip.BestCompression),
		noopcodec.New(),
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":   {},
		"archive": []byte(`{"games":[{"pgn":"[White \"a\"]","time_class":"blitz"}]}`),
		"large":   bytes.Repeat([]byte(`{"pgn":"1. e4 e5"},`), 10000),
	}

	for _, c := range allCodecs() {
		for name, original := range inputs {
			t.Run(c.Name()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Encode(c, original)
				if err != nil {
					t.Fatalf("Encode() error = %v", err)
				}
				got, err := codec.Decode(c, bytes.NewReader(compressed))
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if !bytes.Equal(got, original) {
					t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(original))
				}
			})
		}
	}
}

func TestEncode_Compresses(t *testing.T) {
	original := bytes.Repeat([]byte("ABCDEFGHIJ"), 10000)
	for _, c := range []codec.Codec{zstdcodec.New(), gzipcodec.New()} {
		compressed, err := codec.Encode(c, original)
		if err != nil {
			t.Fatalf("%s: Encode() error = %v", c.Name(), err)
		}
		if len(compressed) >= len(original) {
			t.Errorf("%s: expected compression, got %d bytes from %d", c.Name(), len(compressed), len(original))
		}
	}
}

func TestDecode_InvalidData(t *testing.T) {
	for _, c := range []codec.Codec{zstdcodec.New(), gzipcodec.New()} {
		if _, err := codec.Decode(c, bytes.NewReader([]byte("not compressed"))); err == nil {
			t.Errorf("%s: Decode() expected error for invalid data", c.Name())
		}
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		c    codec.Codec
		want string
	}{
		{zstdcodec.New(), "03.json.zst"},
		{gzipcodec.New(), "03.json.gz"},
		{noopcodec.New(), "03.json"},
	}
	for _, tt := range tests {
		if got := codec.FileName(tt.c, "03.json"); got != tt.want {
			t.Errorf("FileName(%s) = %q, want %q", tt.c.Name(), got, tt.want)
		}
	}
}

func TestNoop_DoesNotCloseUnderlying(t *testing.T) {
	var buf closeTracker
	w, _ := noopcodec.New().Writer(&buf)
	w.Write([]byte("{}"))
	w.Close()
	if buf.closed {
		t.Error("closing the noop writer closed the destination")
	}
	if buf.String() != "{}" {
		t.Errorf("written = %q", buf.String())
	}
}

type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
