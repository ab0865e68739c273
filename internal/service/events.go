package service

import (
	"context"

	"claimequity/internal/domain"
	"claimequity/internal/port"
)

// Analytics event types.
const (
	EventClaimAnalyzed   = "claim_analyzed"
	EventAppealPredicted = "appeal_predicted"
	EventDataShared      = "data_shared"
	EventBiasDetected    = "bias_detected"
	EventAppealGenerated = "appeal_generated"
)

func trackEvent(t port.EventTracker, ctx context.Context, creds domain.Credentials, eventType string, props map[string]string) {
	if t == nil {
		return
	}
	t.Track(ctx, creds, port.AnalyticsEvent{Type: eventType, Properties: props})
}
