package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/discochess/openings/internal/archive/diskstore"
	"github.com/discochess/openings/internal/mirror"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about a local archive directory",
	Long: `Display, per player under --archive-dir:
- Number of monthly archives and the months they span
- Total size on disk
- Games recorded in the manifest, when one exists`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st, err := openArchiveDir()
	if err != nil {
		return err
	}
	months, err := st.Months()
	if err != nil {
		return err
	}
	if len(months) == 0 {
		fmt.Fprintln(out, "No archives found in archive directory.")
		fmt.Fprintln(out, "Run 'openings fetch' to mirror a player's archives.")
		return nil
	}

	type player struct {
		name   string
		months []diskstore.Month
		size   int64
	}
	var players []*player
	for _, m := range months {
		if len(players) == 0 || players[len(players)-1].name != m.Username {
			players = append(players, &player{name: m.Username})
		}
		p := players[len(players)-1]
		p.months = append(p.months, m)
		p.size += m.Size
	}

	var total int64
	fmt.Fprintf(out, "Archive directory: %s\n", st.Root())
	fmt.Fprintf(out, "Codec:             %s\n\n", st.Codec().Name())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tMONTHS\tSPAN\tSIZE\tGAMES")
	for _, p := range players {
		games := "-"
		if man, err := mirror.ReadManifest(st.Root(), p.name); err == nil {
			games = fmt.Sprint(man.GameCount)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s to %s\t%s\t%s\n",
			p.name, len(p.months), p.months[0].Period, p.months[len(p.months)-1].Period,
			mirror.FormatBytes(p.size), games)
		total += p.size
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %d archives, %s\n", len(months), mirror.FormatBytes(total))
	return nil
}
