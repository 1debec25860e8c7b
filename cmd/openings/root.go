package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/openings/internal/config"
)

var (
	// Global flags.
	configPath string
	verbose    bool

	// Resolved in PersistentPreRunE.
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "openings",
	Short: "Per-opening statistics from a player's chess.com games",
	Long: `Openings reads a player's monthly game archives and reports, for every
opening they reached, how many games they played, how those games ended and
their average accuracy.

Archives are read from the chess.com public API by default, or from a local
directory, GCS or S3 bucket populated by 'openings fetch'.

Settings come from defaults, then a YAML file (--config or $OPENINGS_CONFIG),
then OPENINGS_* environment variables, then flags.

Examples:
  # Blitz games played as black in 2024
  openings report black blitz hikaru 2024

  # A window of months, as Markdown
  openings report -u hikaru --from 2023-10 --to 2024-03 --format markdown

  # Mirror archives locally, then report from disk
  openings fetch -u hikaru --year 2024 --archive-dir ./archives
  openings report black blitz hikaru 2024 --source disk --archive-dir ./archives`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Archive source flags shared by every subcommand. They override the
// loaded configuration only when set.
var sourceFlags struct {
	source, archiveDir, bucket, prefix, region, endpoint, codec string
	concurrency, cacheSize                                      int
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default $OPENINGS_CONFIG)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	pf.StringVar(&sourceFlags.source, "source", "", "archive source: chesscom, disk, gcs or s3")
	pf.StringVar(&sourceFlags.archiveDir, "archive-dir", "", "archive directory for the disk source")
	pf.StringVar(&sourceFlags.bucket, "bucket", "", "bucket for the gcs and s3 sources")
	pf.StringVar(&sourceFlags.prefix, "prefix", "", "key prefix within the bucket")
	pf.StringVar(&sourceFlags.region, "region", "", "AWS region for the s3 source")
	pf.StringVar(&sourceFlags.endpoint, "endpoint", "", "custom S3 endpoint, e.g. MinIO")
	pf.StringVar(&sourceFlags.codec, "codec", "", "archive compression: zstd, gzip or none")
	pf.IntVar(&sourceFlags.concurrency, "concurrency", 0, "months fetched at once (default 4)")
	pf.IntVar(&sourceFlags.cacheSize, "cache-size", 0, "months kept in memory; 0 disables the cache")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), c)
	cfg = c

	logger, err = newLogger(verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	return nil
}

// applyFlags copies explicitly set flags over c.
func applyFlags(fs *pflag.FlagSet, c *config.Config) {
	strs := map[string]*string{
		"source":      &c.Source,
		"archive-dir": &c.ArchiveDir,
		"bucket":      &c.Bucket,
		"prefix":      &c.Prefix,
		"region":      &c.Region,
		"endpoint":    &c.Endpoint,
		"codec":       &c.Codec,
	}
	for name, dst := range strs {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	if fs.Changed("concurrency") {
		c.Concurrency, _ = fs.GetInt("concurrency")
	}
	if fs.Changed("cache-size") {
		c.CacheSize, _ = fs.GetInt("cache-size")
	}
}

// newLogger returns a development logger when verbose, otherwise a
// production logger that only reports warnings and errors on stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zc.OutputPaths = []string{"stderr"}
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}
