// Package progress provides byte-level progress reporting for transfers.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress events for one file at a time.
type Reporter interface {
	Start(total int64, description string)
	Add(n int64)
	Finish()
}

// CLIReporter renders a progress bar on stderr.
type CLIReporter struct {
	bar *progressbar.ProgressBar
}

// NewCLIReporter creates a CLI progress reporter.
func NewCLIReporter() *CLIReporter {
	return &CLIReporter{}
}

// Start initializes the progress bar with total size and description.
// A total of -1 renders a spinner.
func (p *CLIReporter) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Add advances the bar by n bytes.
func (p *CLIReporter) Add(n int64) {
	if p.bar != nil {
		_ = p.bar.Add64(n)
	}
}

// Finish completes the bar.
func (p *CLIReporter) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Discard is a Reporter that drops all events.
type Discard struct{}

func (Discard) Start(int64, string) {}
func (Discard) Add(int64)           {}
func (Discard) Finish()             {}
