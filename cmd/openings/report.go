package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/discochess/openings"
	"github.com/discochess/openings/internal/config"
	"github.com/discochess/openings/internal/period"
	promstats "github.com/discochess/openings/internal/stats/prometheus"
)

var reportCmd = &cobra.Command{
	Use:   "report [color] [time_class] [username] [year]",
	Short: "Report per-opening statistics for a player",
	Long: `Report, for every opening a player reached, the number of games, the
outcome of each, the opening's ECO code and URL, and the average accuracy.

Positional arguments are read in order; "any" leaves a filter unset, and as
the year it selects the current year. Flags override positional arguments.
Without a year or range, the current year is reported. Months after the current one are skipped.

The JSON report is an object keyed by opening name, most played first.
The number of games processed is printed to stderr.

Examples:
  # Rapid games played as white in 2023
  openings report white rapid magnuscarlsen 2023

  # Any color, any time class, pretty JSON
  openings report -u hikaru --year 2024 --pretty

  # A window of months as Markdown, with metrics for the node exporter
  openings report -u hikaru --from 2023-06 --to 2024-02 --format markdown \
      --metrics-file /var/lib/node_exporter/openings.prom`,
	Args: cobra.MaximumNArgs(4),
	RunE: runReport,
}

var reportFlags struct {
	color, timeClass, username string
	year                       int
	from, to                   string
	format                     string
	pretty                     bool
	metricsFile                string
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.color, "color", "", "white or black (default any)")
	f.StringVar(&reportFlags.timeClass, "time-class", "", "bullet, blitz, rapid or daily (default any)")
	f.StringVarP(&reportFlags.username, "username", "u", "", "chess.com username")
	f.IntVar(&reportFlags.year, "year", 0, "report January to December of this year")
	f.StringVar(&reportFlags.from, "from", "", "first month, YYYY-MM")
	f.StringVar(&reportFlags.to, "to", "", "last month, YYYY-MM")
	f.StringVar(&reportFlags.format, "format", "", "output format: "+strings.Join(config.Formats, " or ")+" (default json)")
	f.BoolVar(&reportFlags.pretty, "pretty", false, "indent JSON output")
	f.StringVar(&reportFlags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	q, err := resolveQuery(args, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("format") {
		cfg.Format = reportFlags.format
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Pretty = reportFlags.pretty
	}
	if cmd.Flags().Changed("metrics-file") {
		cfg.MetricsFile = reportFlags.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector, registry := newCollector(cfg.MetricsFile)
	st, err := openStore(ctx, cfg, collector)
	if err != nil {
		return err
	}

	client, err := openings.New(
		openings.WithStore(st),
		openings.WithConcurrency(cfg.Concurrency),
		openings.WithStats(collector),
		openings.WithLogger(logger.Named("openings")),
	)
	if err != nil {
		st.Close()
		return fmt.Errorf("creating client: %w", err)
	}
	defer client.Close()

	r, err := client.Report(ctx, q)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	out := cmd.OutOrStdout()
	switch cfg.Format {
	case "markdown":
		err = r.WriteMarkdown(out)
	default:
		err = r.WriteJSON(out, cfg.Pretty)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "processed %d games (%d counted, %d months read, %d missing, %d failed)\n",
		r.Games.Seen, r.Games.Aggregated, r.Months.Fetched, r.Months.Missing, r.Months.Failed)

	if registry != nil {
		if err := promstats.WriteTextfile(cfg.MetricsFile, registry); err != nil {
			return err
		}
	}
	return nil
}

// resolveQuery builds a query from positional arguments, in the order
// color, time class, username, year, then applies set flags on top.
func resolveQuery(args []string, changed func(string) bool) (openings.Query, error) {
	var q openings.Query

	positional := []*string{&q.Color, &q.TimeClass, &q.Username}
	for i, arg := range args {
		if strings.EqualFold(arg, "any") {
			continue
		}
		if i < len(positional) {
			*positional[i] = arg
			continue
		}
		year, err := period.ParseYear(arg)
		if err != nil {
			return q, err
		}
		q.Year = year
	}

	if changed("color") {
		q.Color = reportFlags.color
	}
	if changed("time-class") {
		q.TimeClass = reportFlags.timeClass
	}
	if changed("username") {
		q.Username = reportFlags.username
	}
	if changed("year") {
		q.Year = reportFlags.year
	}
	if changed("from") {
		p, err := period.Parse(reportFlags.from)
		if err != nil {
			return q, fmt.Errorf("--from: %w", err)
		}
		q.From = p
	}
	if changed("to") {
		p, err := period.Parse(reportFlags.to)
		if err != nil {
			return q, fmt.Errorf("--to: %w", err)
		}
		q.To = p
	}

	if q.Username == "" {
		return q, fmt.Errorf("%w: pass it as the third argument or with --username", openings.ErrNoUsername)
	}
	return q, nil
}
