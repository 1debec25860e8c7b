package mirror

import (
	"fmt"
	"io"
	"time"
)

// Progress tracks a mirror run.
type Progress struct {
	Phase       string // "fetch", "done" or "error"
	Period      string
	MonthsDone  int
	MonthsTotal int
	Games       int64
	Bytes       int64
	StartTime   time.Time
	Error       error
}

// ProgressFunc is called after every month and once at the end.
// Calls are serialized.
type ProgressFunc func(Progress)

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// WriterProgress returns a ProgressFunc printing one status line to w.
func WriterProgress(w io.Writer) ProgressFunc {
	return func(p Progress) {
		switch p.Phase {
		case "fetch":
			fmt.Fprintf(w, "\r[Fetch] %d / %d months, %d games, %s",
				p.MonthsDone, p.MonthsTotal, p.Games, FormatBytes(p.Bytes))
		case "done":
			fmt.Fprintf(w, "\n[Done] %d games in %d months (%s)\n",
				p.Games, p.MonthsDone, FormatDuration(time.Since(p.StartTime)))
		case "error":
			fmt.Fprintf(w, "\n[Error] %s: %v\n", p.Period, p.Error)
		}
	}
}
