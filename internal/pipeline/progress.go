package pipeline

// Progress is a coarse-grained update emitted as the pipeline advances.
// It is a pure side channel: callers may ignore it entirely.
type Progress struct {
	Step    string
	Percent int
}

// ProgressFunc receives progress updates. A nil callback is valid.
type ProgressFunc func(Progress)

// report emits a progress update, clamped to 0-100.
func (p *Pipeline) report(percent int, step string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	p.logger.Debug("pipeline progress", "percent", percent, "step", step)

	if p.progress != nil {
		p.progress(Progress{Percent: percent, Step: step})
	}
}
