package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncRegistration(string)              {}
func (n *NoopRecorder) IncVerification(string)              {}
func (n *NoopRecorder) IncLogin(string)                     {}
func (n *NoopRecorder) IncLogout(string)                    {}
func (n *NoopRecorder) IncMailDelivery(string)              {}
func (n *NoopRecorder) IncAnswer(string)                    {}
func (n *NoopRecorder) IncRemoteFailure(string)             {}
func (n *NoopRecorder) ObserveRemoteDuration(time.Duration) {}
func (n *NoopRecorder) SetRemoteBreakerState(string)        {}
func (n *NoopRecorder) IncFormGenerated(string)             {}
func (n *NoopRecorder) IncHistoryWriteFailure(string)       {}
func (n *NoopRecorder) IncRateLimited(string)               {}
