package profiler

import (
	"time"

	"github.com/teenygame/spright"
)

// ProfilerBuilderOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often the profiler logs a statistics line.
//
// Parameters:
//   - interval: the time between log lines; values below 100ms are clamped up
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithUpdateInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval < 100*time.Millisecond {
			interval = 100 * time.Millisecond
		}
		p.updateInterval = interval
	}
}

// WithStatsSource attaches a renderer stats source to the profiler. When set,
// each logged line includes the sprite, group and buffer numbers the source
// reports. Pass the Stats method of a Renderer:
//
//	profiler.NewProfiler(profiler.WithStatsSource(renderer.Stats))
//
// Parameters:
//   - source: a function returning the most recent frame's stats
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the stats source option to a profiler
func WithStatsSource(source func() spright.FrameStats) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.statsSource = source
	}
}
