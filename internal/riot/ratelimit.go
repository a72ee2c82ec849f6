package riot

import (
	"context"
	"log"
	"sync"
	"time"
)

// Dev key limits are 20/s and 100/2min; stay a little under both.
const (
	defaultPerSecond = 15
	defaultPer2Min   = 90
)

// rateLimiter is a two-window sliding log of request times
type rateLimiter struct {
	mu          sync.Mutex
	perSecond   int
	per2Min     int
	shortWindow []time.Time // requests in the last second
	longWindow  []time.Time // requests in the last 2 minutes
}

func newRateLimiter(perSecond, per2Min int) *rateLimiter {
	return &rateLimiter{perSecond: perSecond, per2Min: per2Min}
}

// wait blocks until another request fits in both windows or ctx is done
func (l *rateLimiter) wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()

		l.shortWindow = prune(l.shortWindow, now.Add(-time.Second))
		l.longWindow = prune(l.longWindow, now.Add(-2*time.Minute))

		var waitTime time.Duration
		switch {
		case l.perSecond > 0 && len(l.shortWindow) >= l.perSecond:
			waitTime = l.shortWindow[0].Add(time.Second).Sub(now) + 100*time.Millisecond
		case l.per2Min > 0 && len(l.longWindow) >= l.per2Min:
			waitTime = l.longWindow[0].Add(2*time.Minute).Sub(now) + 100*time.Millisecond
			log.Printf("[Riot] Rate limit: %d req/2min, waiting %.1fs", len(l.longWindow), waitTime.Seconds())
		default:
			l.shortWindow = append(l.shortWindow, now)
			l.longWindow = append(l.longWindow, now)
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

func prune(window []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(window) && !window[i].After(cutoff) {
		i++
	}
	return window[i:]
}
