// Package progress draws a stderr progress bar for the per-file
// extraction phase, keeping stdout clean for the rendered report.
package progress

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker counts processed files against a known total. Tick is safe to
// call from multiple extraction workers.
type Tracker struct {
	bar *progressbar.ProgressBar
}

// NewTracker creates a bar sized to the corpus.
func NewTracker(label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar}
}

// Tick marks one file done.
func (t *Tracker) Tick() {
	t.bar.Add(1)
}

// FinishSuccess clears the bar without leaving output behind.
func (t *Tracker) FinishSuccess() {
	t.bar.Finish()
	t.bar.Clear()
}
