package diskstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/codec/noopcodec"
	"github.com/discochess/openings/internal/codec/zstdcodec"
	"github.com/discochess/openings/internal/period"
)

var march = period.Period{Year: 2024, Month: time.March}

func TestStore_ReadMonth(t *testing.T) {
	dir := t.TempDir()

	// Create archive file manually.
	monthDir := filepath.Join(dir, "hikaru", "2024")
	if err := os.MkdirAll(monthDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	data := []byte(`{"games":[]}`)
	if err := os.WriteFile(filepath.Join(monthDir, "03.json"), data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := New(dir, noopcodec.New()) // No extension with noop codec.
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	// Username lookup ignores case.
	got, err := s.ReadMonth(context.Background(), "Hikaru", march)
	if err != nil {
		t.Fatalf("ReadMonth() error = %v", err)
	}

	if string(got) != string(data) {
		t.Errorf("ReadMonth() = %q, want %q", got, data)
	}
}

func TestStore_WriteThenRead(t *testing.T) {
	s, err := New(t.TempDir(), zstdcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data := []byte(`{"games":[{"pgn":"","time_class":"blitz"}]}`)
	if err := s.WriteMonth("magnus", march, data); err != nil {
		t.Fatalf("WriteMonth() error = %v", err)
	}

	if filepath.Ext(s.Path("magnus", march)) != ".zst" {
		t.Errorf("Path() = %q, want .zst extension", s.Path("magnus", march))
	}

	got, err := s.ReadMonth(context.Background(), "magnus", march)
	if err != nil {
		t.Fatalf("ReadMonth() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("ReadMonth() = %q, want %q", got, data)
	}
}

func TestStore_ReadMonthNotFound(t *testing.T) {
	s, err := New(t.TempDir(), noopcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	_, err = s.ReadMonth(context.Background(), "nobody", march)
	if !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("ReadMonth() error = %v, want ErrNotFound", err)
	}
}

func TestStore_ReadMonthCanceled(t *testing.T) {
	s, err := New(t.TempDir(), noopcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.ReadMonth(ctx, "nobody", march); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadMonth() error = %v, want context.Canceled", err)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path", noopcodec.New())
	if err == nil {
		t.Error("New() with invalid path should return error")
	}
}

func TestNew_NotDirectory(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = New(f.Name(), noopcodec.New())
	if err == nil {
		t.Error("New() with file (not directory) should return error")
	}
}

func TestStore_Months(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, zstdcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	feb := period.Period{Year: 2024, Month: time.February}
	dec := period.Period{Year: 2023, Month: time.December}
	for _, w := range []struct {
		user string
		p    period.Period
	}{
		{"hikaru", march}, {"hikaru", dec}, {"anna", feb},
	} {
		if err := s.WriteMonth(w.user, w.p, []byte(`{"games":[]}`)); err != nil {
			t.Fatalf("WriteMonth() error = %v", err)
		}
	}
	// Ignored: manifest, wrong codec, wrong depth.
	os.WriteFile(filepath.Join(dir, "hikaru", "manifest.json"), []byte("{}"), 0644)
	os.WriteFile(filepath.Join(dir, "hikaru", "2024", "04.json.gz"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "stray.json.zst"), []byte("x"), 0644)

	months, err := s.Months()
	if err != nil {
		t.Fatalf("Months() error = %v", err)
	}

	want := []struct {
		user string
		p    period.Period
	}{
		{"anna", feb}, {"hikaru", dec}, {"hikaru", march},
	}
	if len(months) != len(want) {
		t.Fatalf("Months() = %+v, want %d entries", months, len(want))
	}
	for i, w := range want {
		if months[i].Username != w.user || months[i].Period != w.p {
			t.Errorf("Months()[%d] = %s %s, want %s %s", i, months[i].Username, months[i].Period, w.user, w.p)
		}
		if months[i].Size == 0 {
			t.Errorf("Months()[%d].Size = 0", i)
		}
	}
}
