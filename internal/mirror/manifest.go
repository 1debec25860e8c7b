package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ManifestVersion is the current manifest format.
const ManifestVersion = 1

// Manifest records what a mirror run wrote for one player.
type Manifest struct {
	Version     int            `json:"version"`
	Username    string         `json:"username"`
	Months      map[string]int `json:"months"` // YYYY-MM -> games
	GameCount   int64          `json:"game_count"`
	Compression string         `json:"compression"`
	MirroredAt  time.Time      `json:"mirrored_at"`
	Source      string         `json:"source,omitempty"`
}

const manifestFilename = "manifest.json"

// ManifestPath returns the manifest location of a player under root.
func ManifestPath(root, username string) string {
	return filepath.Join(root, strings.ToLower(username), manifestFilename)
}

// WriteManifest writes the manifest of m.Username under root.
func WriteManifest(root string, m *Manifest) error {
	path := ManifestPath(root, m.Username)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating player directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a player's manifest under root.
func ReadManifest(root, username string) (*Manifest, error) {
	data, err := os.ReadFile(ManifestPath(root, username))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
