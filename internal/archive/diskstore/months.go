package diskstore

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/discochess/openings/internal/codec"
	"github.com/discochess/openings/internal/period"
)

// Month describes one archive file on disk.
type Month struct {
	Username string
	Period   period.Period
	Path     string
	Size     int64
}

// Months lists every archive file under the root written with the store's
// codec, ordered by username then period. Other files are ignored.
func (s *Store) Months() ([]Month, error) {
	suffix := codec.FileName(s.codec, ".json")

	var months []Month
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 3 {
			return nil
		}
		p, err := period.Parse(parts[1] + "-" + strings.TrimSuffix(parts[2], suffix))
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		months = append(months, Month{
			Username: parts[0],
			Period:   p,
			Path:     path,
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}

	sort.Slice(months, func(i, j int) bool {
		if months[i].Username != months[j].Username {
			return months[i].Username < months[j].Username
		}
		return months[i].Period.Before(months[j].Period)
	})
	return months, nil
}
