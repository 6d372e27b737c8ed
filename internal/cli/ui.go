// Package cli is the terminal front end of eigscan: matrix input from flags,
// files and prompts, the live progress display of running scans, report
// formatting, the interactive session and shell completion scripts.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/eigscan/internal/eigen"
	"github.com/agbru/eigscan/internal/ui"
)

const (
	// ProgressRefreshRate is the redraw period of the progress line.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the bar in characters.
	ProgressBarWidth = 40
)

// Theme shortcuts used throughout the package.
func ColorReset() string   { return ui.ColorReset() }
func ColorRed() string     { return ui.ColorRed() }
func ColorGreen() string   { return ui.ColorGreen() }
func ColorYellow() string  { return ui.ColorYellow() }
func ColorMagenta() string { return ui.ColorMagenta() }
func ColorCyan() string    { return ui.ColorCyan() }
func ColorValue() string   { return ui.ColorValue() }
func ColorBold() string    { return ui.ColorBold() }

// FormatExecutionDuration renders d in µs below a millisecond, in ms below a
// second, and with time.Duration's own format otherwise.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.String()
	}
}

// Spinner abstracts the terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// ProgressState holds the latest progress of each concurrent scan.
type ProgressState struct {
	progresses []float64
}

// NewProgressState tracks numScanners scans.
func NewProgressState(numScanners int) *ProgressState {
	return &ProgressState{progresses: make([]float64, numScanners)}
}

// Update records value, clamped to [0, 1], for scan index. Unknown indices
// are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(ps.progresses) {
		return
	}
	ps.progresses[index] = min(max(value, 0), 1)
}

// CalculateAverage returns the mean progress over all scans.
func (ps *ProgressState) CalculateAverage() float64 {
	if len(ps.progresses) == 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(len(ps.progresses))
}

// progressBar renders progress as length block characters.
func progressBar(progress float64, length int) string {
	filled := int(min(max(progress, 0), 1) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

func progressLabel(numScanners int) string {
	if numScanners > 1 {
		return "Avg progress"
	}
	return "Progress"
}

// DisplayProgress draws a spinner with an aggregated progress bar and ETA
// until progressChan is closed, then prints a final 100% line. It is meant
// to run in its own goroutine and calls wg.Done on return.
//
// Parameters:
//   - wg: Signaled when the display has finished writing.
//   - progressChan: Progress of every scan; closed by the orchestrator.
//   - numScanners: The number of scans feeding the channel.
//   - out: Where the progress line is drawn.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan eigen.ProgressUpdate, numScanners int, out io.Writer) {
	defer wg.Done()
	if numScanners <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressWithETA(numScanners)
	label := progressLabel(numScanners)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "%s: %s\n", label, FormatProgressBarWithETA(1, time.Nanosecond, ProgressBarWidth))
				return
			}
			state.UpdateWithETA(update.ScanIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label,
				FormatProgressBarWithETA(state.CalculateAverage(), state.GetETA(), ProgressBarWidth)))
		}
	}
}
