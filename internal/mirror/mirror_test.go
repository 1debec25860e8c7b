package mirror

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/discochess/openings/internal/archive/diskstore"
	"github.com/discochess/openings/internal/archive/memstore"
	"github.com/discochess/openings/internal/codec/zstdcodec"
	"github.com/discochess/openings/internal/period"
	"github.com/discochess/openings/internal/stats"
)

const twoGames = `{"games":[{"pgn":"[White \"me\"]","time_class":"blitz"},{"pgn":"[Black \"me\"]","time_class":"blitz"}]}`

func months(n int) []period.Period {
	ps := make([]period.Period, n)
	p := period.Period{Year: 2023, Month: time.November}
	for i := range ps {
		ps[i] = p
		p = p.Next()
	}
	return ps
}

func TestMirror_Run(t *testing.T) {
	ps := months(4)
	src := memstore.New()
	src.SetMonth("me", ps[0], []byte(twoGames))
	src.SetMonth("me", ps[1], []byte(`{"games":[]}`))
	src.SetMonth("me", ps[2], []byte("not json"))
	// ps[3] is missing.

	root := t.TempDir()
	dest, err := diskstore.New(root, zstdcodec.New())
	if err != nil {
		t.Fatalf("diskstore.New() error = %v", err)
	}

	var (
		mu     sync.Mutex
		phases []string
	)
	collector := stats.NewMemory()
	m := New(src, dest,
		WithConcurrency(3),
		WithStats(collector),
		WithSourceName("chesscom"),
		WithProgress(func(p Progress) {
			mu.Lock()
			defer mu.Unlock()
			phases = append(phases, p.Phase)
		}),
	)

	res, err := m.Run(context.Background(), "Me", ps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Written) != 2 || res.Missing != 1 || res.Failed != 1 || res.Games != 2 {
		t.Errorf("Run() = %+v", res)
	}
	if collector.Counter(stats.MetricMonthsFetched) != 2 || collector.Counter(stats.MetricMonthErrors) != 1 {
		t.Errorf("metrics: fetched %d, errors %d",
			collector.Counter(stats.MetricMonthsFetched), collector.Counter(stats.MetricMonthErrors))
	}

	got, err := dest.ReadMonth(context.Background(), "me", ps[0])
	if err != nil || string(got) != twoGames {
		t.Errorf("ReadMonth() = %q, %v", got, err)
	}
	if _, err := os.Stat(dest.Path("me", ps[2])); !os.IsNotExist(err) {
		t.Error("undecodable month should not be written")
	}

	if len(phases) != 5 || phases[len(phases)-1] != "done" {
		t.Errorf("phases = %v", phases)
	}

	man, err := ReadManifest(root, "ME")
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if man.Version != ManifestVersion || man.Compression != "zstd" || man.Source != "chesscom" {
		t.Errorf("manifest = %+v", man)
	}
	if man.GameCount != 2 || len(man.Months) != 2 || man.Months["2023-11"] != 2 {
		t.Errorf("manifest months = %v, games = %d", man.Months, man.GameCount)
	}
}

func TestMirror_ManifestMerges(t *testing.T) {
	ps := months(2)
	src := memstore.New()
	src.SetMonth("me", ps[0], []byte(twoGames))
	src.SetMonth("me", ps[1], []byte(twoGames))

	root := t.TempDir()
	dest, err := diskstore.New(root, zstdcodec.New())
	if err != nil {
		t.Fatalf("diskstore.New() error = %v", err)
	}
	m := New(src, dest)

	for _, p := range ps {
		if _, err := m.Run(context.Background(), "me", []period.Period{p}); err != nil {
			t.Fatalf("Run(%s) error = %v", p, err)
		}
	}

	man, err := ReadManifest(root, "me")
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if len(man.Months) != 2 || man.GameCount != 4 {
		t.Errorf("manifest = %+v", man)
	}
}

func TestMirror_Canceled(t *testing.T) {
	src := memstore.New()
	dest, err := diskstore.New(t.TempDir(), zstdcodec.New())
	if err != nil {
		t.Fatalf("diskstore.New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = New(src, dest).Run(ctx, "me", months(3))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestWriterProgress(t *testing.T) {
	var b strings.Builder
	fn := WriterProgress(&b)
	fn(Progress{Phase: "fetch", MonthsDone: 1, MonthsTotal: 3, Games: 40, Bytes: 2048})
	fn(Progress{Phase: "done", MonthsDone: 3, Games: 40, StartTime: time.Now()})

	out := b.String()
	if !strings.Contains(out, "[Fetch] 1 / 3 months, 40 games, 2.0 KB") {
		t.Errorf("fetch line missing: %q", out)
	}
	if !strings.Contains(out, "[Done] 40 games in 3 months") {
		t.Errorf("done line missing: %q", out)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatBytes(tt.bytes); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
