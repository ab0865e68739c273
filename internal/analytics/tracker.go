// Package analytics forwards product analytics events to an external
// provider without holding up the request that produced them.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/semaphore"

	"claimequity/internal/domain"
	"claimequity/internal/port"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxInFlight = 64
)

// Tracker implements port.EventTracker over a track-capable adapter. Events
// are sent on their own goroutine, detached from request cancellation. When
// maxInFlight sends are already pending new events are dropped.
type Tracker struct {
	adapter port.ProviderAdapter
	timeout time.Duration
	slots   *semaphore.Weighted
	wg      sync.WaitGroup
}

// NewTracker creates a Tracker. A nil adapter yields a Tracker that drops
// every event.
func NewTracker(adapter port.ProviderAdapter, timeout time.Duration, maxInFlight int64) *Tracker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	return &Tracker{
		adapter: adapter,
		timeout: timeout,
		slots:   semaphore.NewWeighted(maxInFlight),
	}
}

// Track sends event when the caller supplied a key for the analytics provider.
func (t *Tracker) Track(ctx context.Context, creds domain.Credentials, event port.AnalyticsEvent) {
	if t.adapter == nil || event.Type == "" || !t.adapter.Supports(domain.CapabilityTrack) {
		return
	}
	key := creds.For(t.adapter.Name())
	if key == "" {
		return
	}
	if !t.slots.TryAcquire(1) {
		log.WithField("event", event.Type).Warn("analytics.Track: too many pending events, dropping")
		return
	}

	detached := context.WithoutCancel(ctx)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.slots.Release(1)

		callCtx, cancel := context.WithTimeout(detached, t.timeout)
		defer cancel()
		_, err := t.adapter.Invoke(callCtx, domain.CapabilityTrack, port.ProviderPayload{
			Event:  event.Type,
			Params: event.Properties,
		}, key)
		if err != nil {
			log.WithError(err).WithField("event", event.Type).Warn("analytics.Track: event not delivered")
		}
	}()
}

// Wait blocks until every pending event has been sent or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
