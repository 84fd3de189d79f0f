package subtitle

import (
	"fmt"
	"io"
	"time"
)

// WriteSRT renders entries as an SRT document. Entries are numbered from 1;
// each cue runs from Start to Start+Duration.
func WriteSRT(w io.Writer, entries []Entry) error {
	for i, e := range entries {
		start := time.Duration(e.Start * float64(time.Second))
		end := time.Duration((e.Start + e.Duration) * float64(time.Second))

		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1,
			formatDuration(start),
			formatDuration(end),
			e.Text,
		); err != nil {
			return fmt.Errorf("write srt cue %d: %w", i+1, err)
		}
	}
	return nil
}

// formatDuration formats time.Duration to SRT time format
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, milliseconds)
}
