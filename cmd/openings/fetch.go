package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/openings"
	"github.com/discochess/openings/internal/archive/diskstore"
	"github.com/discochess/openings/internal/codec/codecs"
	"github.com/discochess/openings/internal/mirror"
	"github.com/discochess/openings/internal/period"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [username]",
	Short: "Mirror a player's monthly archives into a local directory",
	Long: `Download a player's monthly archives from the configured source (the
chess.com API by default) and write them, compressed, under the output
directory as <username>/<YYYY>/<MM>.json.zst, plus a manifest.json per player.

The directory can be read back with --source disk, or synced to a bucket
and read with --source gcs or --source s3. Months that are missing or do not
decode are skipped. Running fetch again adds months to the manifest.

Examples:
  # Mirror 2024 so far
  openings fetch hikaru --year 2024 --output ./archives

  # Mirror a window with gzip instead of zstd
  openings fetch -u hikaru --from 2022-01 --to 2023-12 -o ./archives --codec gzip`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

var fetchFlags struct {
	username string
	output   string
	year     int
	from, to string
}

func init() {
	f := fetchCmd.Flags()
	f.StringVarP(&fetchFlags.username, "username", "u", "", "chess.com username")
	f.StringVarP(&fetchFlags.output, "output", "o", "./archives", "output directory")
	f.IntVar(&fetchFlags.year, "year", 0, "mirror January to December of this year")
	f.StringVar(&fetchFlags.from, "from", "", "first month, YYYY-MM")
	f.StringVar(&fetchFlags.to, "to", "", "last month, YYYY-MM")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	q := openings.Query{Username: fetchFlags.username, Year: fetchFlags.year}
	if len(args) == 1 && !cmd.Flags().Changed("username") {
		q.Username = args[0]
	}
	if q.Username == "" {
		return openings.ErrNoUsername
	}
	var err error
	if fetchFlags.from != "" {
		if q.From, err = period.Parse(fetchFlags.from); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
	}
	if fetchFlags.to != "" {
		if q.To, err = period.Parse(fetchFlags.to); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}
	periods, err := q.Periods(time.Now())
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		return openings.ErrNoPeriods
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	cd, err := codecs.ForName(cfg.Codec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fetchFlags.output, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	dest, err := diskstore.New(fetchFlags.output, cd)
	if err != nil {
		return fmt.Errorf("opening output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector, _ := newCollector("")
	src, err := openStore(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer src.Close()

	m := mirror.New(src, dest,
		mirror.WithConcurrency(cfg.Concurrency),
		mirror.WithSourceName(cfg.Source),
		mirror.WithStats(collector),
		mirror.WithLogger(logger.Named("mirror")),
		mirror.WithProgress(mirror.WriterProgress(cmd.ErrOrStderr())),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "Mirroring %d months of %s (%s to %s) into %s\n",
		len(periods), q.Username, periods[0], periods[len(periods)-1], fetchFlags.output)

	res, err := m.Run(ctx, q.Username, periods)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("fetch interrupted")
		}
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Written: %d months, %d games, %s\n",
		len(res.Written), res.Games, mirror.FormatBytes(res.Bytes))
	if res.Missing > 0 || res.Failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %d missing, %d failed\n", res.Missing, res.Failed)
	}
	return nil
}
