// Package latency tracks the gateway heartbeat round trip.
package latency

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/metrics"
)

// DefaultInterval is how often the poller samples when nothing is configured.
const DefaultInterval = 5 * time.Second

// Tracker holds the latest latency sample.
type Tracker struct {
	mu    sync.RWMutex
	value *time.Duration
}

// NewTracker creates a tracker with no sample.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Set stores a sample.
func (t *Tracker) Set(d time.Duration) {
	t.mu.Lock()
	t.value = &d
	t.mu.Unlock()
}

// Get returns the latest sample, or false before the first heartbeat.
func (t *Tracker) Get() (time.Duration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.value == nil {
		return 0, false
	}
	return *t.value, true
}

// Source reports the current heartbeat latency; zero means unknown.
type Source func() time.Duration

// Poller copies samples from a Source into a Tracker.
type Poller struct {
	source   Source
	tracker  *Tracker
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates a poller. It does nothing until Start.
func NewPoller(source Source, tracker *Tracker, interval time.Duration, m *metrics.Metrics, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Poller{
		source:   source,
		tracker:  tracker,
		interval: interval,
		metrics:  m,
		logger:   logger.Named("latency"),
	}
}

// Start begins sampling in the background.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx)
}

// Stop ends sampling and waits for the loop to exit.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}

	p.cancel()
	<-p.done
	p.cancel = nil
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Debug("Latency poller started", zap.Duration("interval", p.interval))

	for {
		p.Sample()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sample reads the source once.
func (p *Poller) Sample() {
	d := p.source()
	if d <= 0 {
		return
	}

	p.tracker.Set(d)
	p.metrics.SetLatency(d)
}
