package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters keyed by label value.
type Snapshot struct {
	Registrations        map[string]uint64
	Verifications        map[string]uint64
	Logins               map[string]uint64
	Logouts              map[string]uint64
	MailDeliveries       map[string]uint64
	Answers              map[string]uint64
	RemoteFailures       map[string]uint64
	RemoteDurationCount  uint64
	RemoteDurationTotal  time.Duration
	BreakerState         string
	FormsGenerated       map[string]uint64
	HistoryWriteFailures map[string]uint64
	RateLimited          map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{snap: Snapshot{
		Registrations:        map[string]uint64{},
		Verifications:        map[string]uint64{},
		Logins:               map[string]uint64{},
		Logouts:              map[string]uint64{},
		MailDeliveries:       map[string]uint64{},
		Answers:              map[string]uint64{},
		RemoteFailures:       map[string]uint64{},
		BreakerState:         "closed",
		FormsGenerated:       map[string]uint64{},
		HistoryWriteFailures: map[string]uint64{},
		RateLimited:          map[string]uint64{},
	}}
}

// Snapshot returns a deep copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.snap
	s.Registrations = clone(m.snap.Registrations)
	s.Verifications = clone(m.snap.Verifications)
	s.Logins = clone(m.snap.Logins)
	s.Logouts = clone(m.snap.Logouts)
	s.MailDeliveries = clone(m.snap.MailDeliveries)
	s.Answers = clone(m.snap.Answers)
	s.RemoteFailures = clone(m.snap.RemoteFailures)
	s.FormsGenerated = clone(m.snap.FormsGenerated)
	s.HistoryWriteFailures = clone(m.snap.HistoryWriteFailures)
	s.RateLimited = clone(m.snap.RateLimited)
	return s
}

func (m *InMemoryRecorder) inc(counter map[string]uint64, label string) {
	m.mu.Lock()
	counter[label]++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncRegistration(outcome string) { m.inc(m.snap.Registrations, outcome) }
func (m *InMemoryRecorder) IncVerification(outcome string) { m.inc(m.snap.Verifications, outcome) }
func (m *InMemoryRecorder) IncLogin(outcome string)        { m.inc(m.snap.Logins, outcome) }
func (m *InMemoryRecorder) IncLogout(outcome string)       { m.inc(m.snap.Logouts, outcome) }
func (m *InMemoryRecorder) IncMailDelivery(status string)  { m.inc(m.snap.MailDeliveries, status) }
func (m *InMemoryRecorder) IncAnswer(source string)        { m.inc(m.snap.Answers, source) }
func (m *InMemoryRecorder) IncRemoteFailure(reason string) { m.inc(m.snap.RemoteFailures, reason) }
func (m *InMemoryRecorder) IncFormGenerated(formType string) {
	m.inc(m.snap.FormsGenerated, formType)
}
func (m *InMemoryRecorder) IncHistoryWriteFailure(kind string) {
	m.inc(m.snap.HistoryWriteFailures, kind)
}
func (m *InMemoryRecorder) IncRateLimited(scope string) { m.inc(m.snap.RateLimited, scope) }

// ObserveRemoteDuration records the latency of one model call.
func (m *InMemoryRecorder) ObserveRemoteDuration(duration time.Duration) {
	m.mu.Lock()
	m.snap.RemoteDurationCount++
	m.snap.RemoteDurationTotal += duration
	m.mu.Unlock()
}

// SetRemoteBreakerState records the latest breaker state.
func (m *InMemoryRecorder) SetRemoteBreakerState(state string) {
	m.mu.Lock()
	m.snap.BreakerState = state
	m.mu.Unlock()
}

func clone(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
