// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Catalog metrics
	IncProductCreated()
	IncProductUpdated()
	IncFoldersCreated(n int)
	IncFolderLinked()

	// Usage metering metrics
	ObserveUsageRecord(elapsed time.Duration)
	IncUsageRecordFailed()

	// Edge metrics
	IncAuthCacheHit()
	IncAuthCacheMiss()
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
