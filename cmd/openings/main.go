// Package main provides the openings CLI, which reports per-opening
// statistics from a player's monthly chess.com game archives.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
