package geocoding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/UnknownOlympus/csv2kml/internal/models"
	"golang.org/x/time/rate"
)

// DefaultMinDelay is the minimum spacing between two outbound lookups.
const DefaultMinDelay = time.Second

// RateLimitedProvider enforces a minimum delay between the starts of consecutive
// lookups of the wrapped provider. A single instance is shared by the whole process,
// so the delay holds across input files.
type RateLimitedProvider struct {
	next     Provider
	limiter  *rate.Limiter
	minDelay time.Duration

	mu        sync.Mutex
	lastStart time.Time // monotonic start of the previous lookup
}

// NewRateLimitedProvider wraps next so that lookups start at least minDelay apart.
// A non-positive minDelay disables the limit.
func NewRateLimitedProvider(next Provider, minDelay time.Duration) *RateLimitedProvider {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}

	return &RateLimitedProvider{
		next:     next,
		limiter:  rate.NewLimiter(limit, 1),
		minDelay: minDelay,
	}
}

// Geocode waits for its turn and then performs exactly one lookup.
func (rp *RateLimitedProvider) Geocode(ctx context.Context, name string) (*models.Coordinates, error) {
	if err := rp.acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	return rp.next.Geocode(ctx, name)
}

// acquire blocks until the limiter admits the call and minDelay has passed since the
// previous start. The limiter schedules against ideal slots, so a late release can
// leave a shorter real gap; the remainder is slept off here.
func (rp *RateLimitedProvider) acquire(ctx context.Context) error {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if err := rp.limiter.Wait(ctx); err != nil {
		return err
	}

	if !rp.lastStart.IsZero() {
		if remaining := rp.minDelay - time.Since(rp.lastStart); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	rp.lastStart = time.Now()

	return nil
}
