package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/openings/internal/archive/diskstore"
	"github.com/discochess/openings/internal/codec/codecs"
	"github.com/discochess/openings/internal/game"
	"github.com/discochess/openings/internal/mirror"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the integrity of a local archive directory",
	Long: `Verify that every archive file under --archive-dir is valid.

This command checks:
- Each file can be decompressed with the configured codec
- Each file decodes as a monthly game archive
- Each player's game count matches their manifest, when one exists`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
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
		return nil
	}

	fmt.Fprintf(out, "Verifying %d archives...\n", len(months))

	ctx := context.Background()
	games := make(map[string]map[string]int) // username -> YYYY-MM -> games
	var errCount int
	for i, m := range months {
		if verbose {
			fmt.Fprintf(out, "  [%d/%d] %s %s\n", i+1, len(months), m.Username, m.Period)
		}

		data, err := st.ReadMonth(ctx, m.Username, m.Period)
		if err != nil {
			fmt.Fprintf(out, "  ERROR: %s: %v\n", m.Path, err)
			errCount++
			continue
		}
		batch, err := game.DecodeBatch(data)
		if err != nil {
			fmt.Fprintf(out, "  ERROR: %s: %v\n", m.Path, err)
			errCount++
			continue
		}

		if games[m.Username] == nil {
			games[m.Username] = make(map[string]int)
		}
		games[m.Username][m.Period.String()] = len(batch)
	}

	for username, counts := range games {
		man, err := mirror.ReadManifest(st.Root(), username)
		if err != nil {
			continue
		}
		for month, want := range man.Months {
			got, ok := counts[month]
			switch {
			case !ok:
				fmt.Fprintf(out, "  ERROR: %s %s: listed in manifest but missing\n", username, month)
				errCount++
			case got != want:
				fmt.Fprintf(out, "  ERROR: %s %s: %d games, manifest says %d\n", username, month, got, want)
				errCount++
			}
		}
	}

	if errCount > 0 {
		return fmt.Errorf("%d archives failed verification", errCount)
	}

	fmt.Fprintln(out, "All archives verified successfully.")
	return nil
}

// openArchiveDir opens the configured archive directory as a disk store.
func openArchiveDir() (*diskstore.Store, error) {
	if cfg.ArchiveDir == "" {
		return nil, fmt.Errorf("--archive-dir is required")
	}
	cd, err := codecs.ForName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	st, err := diskstore.New(cfg.ArchiveDir, cd)
	if err != nil {
		return nil, fmt.Errorf("archive directory %q: %w", cfg.ArchiveDir, err)
	}
	return st, nil
}
