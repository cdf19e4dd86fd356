package metrics

import "sync/atomic"

// Metrics captures shared operational stats for the analysis pipeline.
type Metrics struct {
	runsStarted         int64
	runsCompleted       int64
	runsFailed          int64
	generativeFallbacks int64
	narrativeFallbacks  int64
	remoteFailures      int64
}

// Snapshot provides a consistent view of the current metrics.
type Snapshot struct {
	RunsStarted         int64
	RunsCompleted       int64
	RunsFailed          int64
	GenerativeFallbacks int64
	NarrativeFallbacks  int64
	RemoteFailures      int64
}

// New creates a zeroed Metrics instance.
func New() *Metrics {
	return &Metrics{}
}

// RecordRunStart counts an accepted analysis request.
func (m *Metrics) RecordRunStart() {
	atomic.AddInt64(&m.runsStarted, 1)
}

// RecordRunCompletion increments completed/failed counters based on outcome.
func (m *Metrics) RecordRunCompletion(err error) {
	if err != nil {
		atomic.AddInt64(&m.runsFailed, 1)
		return
	}
	atomic.AddInt64(&m.runsCompleted, 1)
}

// RecordGenerativeFallback counts an extraction that degraded to the stub.
func (m *Metrics) RecordGenerativeFallback() {
	atomic.AddInt64(&m.generativeFallbacks, 1)
}

// RecordNarrativeFallback counts a summary that used the template path.
func (m *Metrics) RecordNarrativeFallback() {
	atomic.AddInt64(&m.narrativeFallbacks, 1)
}

// RecordRemoteFailure counts a best-effort remote replication failure.
func (m *Metrics) RecordRemoteFailure() {
	atomic.AddInt64(&m.remoteFailures, 1)
}

// Snapshot returns a read-only view of metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RunsStarted:         atomic.LoadInt64(&m.runsStarted),
		RunsCompleted:       atomic.LoadInt64(&m.runsCompleted),
		RunsFailed:          atomic.LoadInt64(&m.runsFailed),
		GenerativeFallbacks: atomic.LoadInt64(&m.generativeFallbacks),
		NarrativeFallbacks:  atomic.LoadInt64(&m.narrativeFallbacks),
		RemoteFailures:      atomic.LoadInt64(&m.remoteFailures),
	}
}
