package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncProductCreated is a no-op.
func (n *NoopRecorder) IncProductCreated() {}

// IncProductUpdated is a no-op.
func (n *NoopRecorder) IncProductUpdated() {}

// IncFoldersCreated is a no-op.
func (n *NoopRecorder) IncFoldersCreated(count int) {}

// IncFolderLinked is a no-op.
func (n *NoopRecorder) IncFolderLinked() {}

// ObserveUsageRecord is a no-op.
func (n *NoopRecorder) ObserveUsageRecord(elapsed time.Duration) {}

// IncUsageRecordFailed is a no-op.
func (n *NoopRecorder) IncUsageRecordFailed() {}

// IncAuthCacheHit is a no-op.
func (n *NoopRecorder) IncAuthCacheHit() {}

// IncAuthCacheMiss is a no-op.
func (n *NoopRecorder) IncAuthCacheMiss() {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited() {}
