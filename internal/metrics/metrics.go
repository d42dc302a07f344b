// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Label values are small fixed sets; never pass user input.
type Recorder interface {
	// Auth lifecycle
	IncRegistration(outcome string) // "created", "conflict", "invalid", "error"
	IncVerification(outcome string) // "verified", "already_verified", "expired", "invalid", "unknown_user", "resent", "resend_ignored", "resend_invalid", "error"
	IncLogin(outcome string)        // "success", "unauthenticated", "not_verified", "error"
	IncLogout(outcome string)       // "revoked", "degraded"
	IncMailDelivery(status string)  // "sent", "failed", "manual"

	// Answer pipeline
	IncAnswer(source string) // "primary" or "fallback"
	IncRemoteFailure(reason string)
	ObserveRemoteDuration(duration time.Duration)
	SetRemoteBreakerState(state string) // "closed", "half-open", "open"

	// History and forms
	IncFormGenerated(formType string)
	IncHistoryWriteFailure(kind string) // "chat" or "form"

	// HTTP edge
	IncRateLimited(scope string) // "ip" or "user"
}
