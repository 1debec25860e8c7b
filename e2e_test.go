//go:build e2e

package openings_test

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/discochess/openings"
	"github.com/discochess/openings/internal/archive/chesscom"
	"github.com/discochess/openings/internal/archive/diskstore"
	"github.com/discochess/openings/internal/codec/zstdcodec"
	"github.com/discochess/openings/internal/mirror"
	"github.com/discochess/openings/internal/period"
)

// TestE2E_ChessCom mirrors a real player's months from the public API,
// then checks that reports from the API and from the mirror agree.
func TestE2E_ChessCom(t *testing.T) {
	username := os.Getenv("OPENINGS_E2E_USERNAME")
	if username == "" {
		t.Skip("Skipping: OPENINGS_E2E_USERNAME not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	q := openings.Query{
		Username: username,
		From:     period.Period{Year: 2023, Month: time.January},
		To:       period.Period{Year: 2023, Month: time.June},
	}
	periods, err := q.Periods(time.Now())
	if err != nil {
		t.Fatalf("Periods() error = %v", err)
	}

	api := chesscom.New()
	dir := t.TempDir()
	disk, err := diskstore.New(dir, zstdcodec.New())
	if err != nil {
		t.Fatalf("diskstore.New() error = %v", err)
	}

	start := time.Now()
	res, err := mirror.New(api, disk).Run(ctx, username, periods)
	if err != nil {
		t.Fatalf("mirror Run() error = %v", err)
	}
	t.Logf("mirrored %d months, %d games, %s in %v",
		len(res.Written), res.Games, mirror.FormatBytes(res.Bytes), time.Since(start))

	report := func(opts ...openings.Option) *openings.Report {
		t.Helper()
		client, err := openings.New(append(opts, openings.WithLogger(zaptest.NewLogger(t)))...)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		defer client.Close()
		r, err := client.Report(ctx, q)
		if err != nil {
			t.Fatalf("Report() error = %v", err)
		}
		return r
	}

	fromAPI := report(openings.WithStore(chesscom.New()))
	fromDisk := report(openings.WithStore(disk))

	if fromAPI.Games != fromDisk.Games {
		t.Errorf("games differ: api %+v, disk %+v", fromAPI.Games, fromDisk.Games)
	}
	if len(fromAPI.Entries) != len(fromDisk.Entries) {
		t.Fatalf("openings differ: api %d, disk %d", len(fromAPI.Entries), len(fromDisk.Entries))
	}
	for i := range fromAPI.Entries {
		if fromAPI.Entries[i].Opening != fromDisk.Entries[i].Opening || fromAPI.Entries[i].Count != fromDisk.Entries[i].Count {
			t.Errorf("entry %d: api %+v, disk %+v", i, fromAPI.Entries[i], fromDisk.Entries[i])
		}
	}
	t.Logf("%d games counted across %d openings", fromAPI.Games.Aggregated, len(fromAPI.Entries))
}
