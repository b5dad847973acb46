package profiler

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/teenygame/spright"
)

func TestTickWaitsForInterval(t *testing.T) {
	p := NewProfiler()

	assert.False(t, p.Tick(), "first tick should not log")
	assert.Equal(t, 1, p.frameCount)
}

func TestTickLogsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	p := NewProfiler()
	p.lastTime = time.Now().Add(-2 * time.Second)

	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "[Profiler] FPS:")
	assert.Equal(t, 0, p.frameCount, "frame count resets after logging")
}

func TestTickIncludesRendererStats(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	p := NewProfiler(WithStatsSource(func() spright.FrameStats {
		return spright.FrameStats{
			Sprites:           120,
			Groups:            3,
			VertexBufferBytes: 1024,
			IndexBufferBytes:  512,
		}
	}))
	p.lastTime = time.Now().Add(-2 * time.Second)

	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "Sprites: 120")
	assert.Contains(t, buf.String(), "Groups: 3")
	assert.Contains(t, buf.String(), "Buffers: 1.5 KB")
}

func TestWithUpdateIntervalClampsLowValues(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, p.updateInterval)

	p = NewProfiler(WithUpdateInterval(5 * time.Second))
	assert.Equal(t, 5*time.Second, p.updateInterval)
}
