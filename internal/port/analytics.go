package port

import (
	"context"

	"claimequity/internal/domain"
)

// AnalyticsEvent is one product analytics event. Properties must never carry
// raw zip or demographic values.
type AnalyticsEvent struct {
	Type       string
	Properties map[string]string
}

// EventTracker records analytics events on a best-effort basis. Track never
// blocks the caller on the outbound call and never reports failure.
type EventTracker interface {
	Track(ctx context.Context, creds domain.Credentials, event AnalyticsEvent)
}
