package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ProductsCreated     uint64
	ProductsUpdated     uint64
	FoldersCreated      uint64
	FolderLinks         uint64
	UsageRecords        uint64
	UsageRecordTotalMs  int64
	UsageRecordFailures uint64
	AuthCacheHits       uint64
	AuthCacheMisses     uint64
	RateLimited         uint64
}

// InMemoryRecorder stores metrics in memory for tests and the /metrics endpoint.
type InMemoryRecorder struct {
	productsCreated     atomic.Uint64
	productsUpdated     atomic.Uint64
	foldersCreated      atomic.Uint64
	folderLinks         atomic.Uint64
	usageRecords        atomic.Uint64
	usageRecordTotalMs  atomic.Int64
	usageRecordFailures atomic.Uint64
	authCacheHits       atomic.Uint64
	authCacheMisses     atomic.Uint64
	rateLimited         atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		ProductsCreated:     m.productsCreated.Load(),
		ProductsUpdated:     m.productsUpdated.Load(),
		FoldersCreated:      m.foldersCreated.Load(),
		FolderLinks:         m.folderLinks.Load(),
		UsageRecords:        m.usageRecords.Load(),
		UsageRecordTotalMs:  m.usageRecordTotalMs.Load(),
		UsageRecordFailures: m.usageRecordFailures.Load(),
		AuthCacheHits:       m.authCacheHits.Load(),
		AuthCacheMisses:     m.authCacheMisses.Load(),
		RateLimited:         m.rateLimited.Load(),
	}
}

// IncProductCreated increments the product created counter.
func (m *InMemoryRecorder) IncProductCreated() {
	m.productsCreated.Add(1)
}

// IncProductUpdated increments the product updated counter.
func (m *InMemoryRecorder) IncProductUpdated() {
	m.productsUpdated.Add(1)
}

// IncFoldersCreated adds a committed folder batch.
func (m *InMemoryRecorder) IncFoldersCreated(n int) {
	if n > 0 {
		m.foldersCreated.Add(uint64(n))
	}
}

// IncFolderLinked increments the product-folder link counter.
func (m *InMemoryRecorder) IncFolderLinked() {
	m.folderLinks.Add(1)
}

// ObserveUsageRecord records one persisted usage measurement.
func (m *InMemoryRecorder) ObserveUsageRecord(elapsed time.Duration) {
	m.usageRecords.Add(1)
	m.usageRecordTotalMs.Add(elapsed.Milliseconds())
}

// IncUsageRecordFailed counts measurements that could not be persisted.
func (m *InMemoryRecorder) IncUsageRecordFailed() {
	m.usageRecordFailures.Add(1)
}

// IncAuthCacheHit increments the auth cache hit counter.
func (m *InMemoryRecorder) IncAuthCacheHit() {
	m.authCacheHits.Add(1)
}

// IncAuthCacheMiss increments the auth cache miss counter.
func (m *InMemoryRecorder) IncAuthCacheMiss() {
	m.authCacheMisses.Add(1)
}

// IncRateLimited counts rejected requests.
func (m *InMemoryRecorder) IncRateLimited() {
	m.rateLimited.Add(1)
}
