package latency

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTrackerEmpty(t *testing.T) {
	_, ok := NewTracker().Get()
	assert.False(t, ok)
}

func TestTrackerSet(t *testing.T) {
	tr := NewTracker()
	tr.Set(42 * time.Millisecond)

	d, ok := tr.Get()
	require.True(t, ok)
	assert.Equal(t, 42*time.Millisecond, d)
}

func TestPollerSkipsUnknownLatency(t *testing.T) {
	tr := NewTracker()
	p := NewPoller(func() time.Duration { return 0 }, tr, time.Second, nil, zaptest.NewLogger(t))

	p.Sample()

	_, ok := tr.Get()
	assert.False(t, ok)
}

func TestPollerRuns(t *testing.T) {
	var calls atomic.Int32
	tr := NewTracker()
	p := NewPoller(func() time.Duration {
		calls.Add(1)
		return 30 * time.Millisecond
	}, tr, 10*time.Millisecond, nil, zaptest.NewLogger(t))

	p.Start()
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	p.Stop()
	p.Stop()

	d, ok := tr.Get()
	require.True(t, ok)
	assert.Equal(t, 30*time.Millisecond, d)
}
