package cli

import (
	"github.com/schollz/progressbar/v3"

	"github.com/studiopulse/pulse/internal/pipeline"
)

// NewPipelineProgress returns a ProgressFunc that renders pipeline updates
// as a terminal progress bar with the current step as its description.
func NewPipelineProgress() pipeline.ProgressFunc {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Processing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	return func(p pipeline.Progress) {
		bar.Describe(p.Step)
		_ = bar.Set(p.Percent)
	}
}
