package dispatch

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Throttle rate limits invocations per user. A nil Throttle allows everything.
type Throttle struct {
	mu       sync.Mutex
	limiters *lru.Cache[discord.UserID, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewThrottle keeps up to size per-user token buckets refilling at perSecond.
// A non-positive perSecond disables throttling and returns nil.
func NewThrottle(perSecond float64, burst, size int) (*Throttle, error) {
	if perSecond <= 0 {
		return nil, nil
	}
	if burst < 1 {
		burst = 1
	}
	if size < 1 {
		size = 1024
	}

	cache, err := lru.New[discord.UserID, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}

	return &Throttle{
		limiters: cache,
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}, nil
}

// Allow reports whether user may run a command now.
func (t *Throttle) Allow(user discord.UserID) bool {
	if t == nil {
		return true
	}

	t.mu.Lock()
	limiter, ok := t.limiters.Get(user)
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters.Add(user, limiter)
	}
	t.mu.Unlock()

	return limiter.Allow()
}
