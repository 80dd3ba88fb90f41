package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Snapshot(t *testing.T) {
	m := NewInMemory()

	m.IncProductCreated()
	m.IncProductCreated()
	m.IncProductUpdated()
	m.IncFoldersCreated(3)
	m.IncFoldersCreated(0)
	m.IncFolderLinked()
	m.ObserveUsageRecord(1500 * time.Millisecond)
	m.ObserveUsageRecord(20 * time.Millisecond)
	m.IncUsageRecordFailed()
	m.IncAuthCacheHit()
	m.IncAuthCacheMiss()
	m.IncRateLimited()

	got := m.Snapshot()
	want := Snapshot{
		ProductsCreated:     2,
		ProductsUpdated:     1,
		FoldersCreated:      3,
		FolderLinks:         1,
		UsageRecords:        2,
		UsageRecordTotalMs:  1520,
		UsageRecordFailures: 1,
		AuthCacheHits:       1,
		AuthCacheMisses:     1,
		RateLimited:         1,
	}
	if got != want {
		t.Fatalf("snapshot mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.ObserveUsageRecord(2 * time.Millisecond)
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap.UsageRecords != 50 || snap.UsageRecordTotalMs != 100 {
		t.Fatalf("expected 50 records totalling 100ms, got %d / %d", snap.UsageRecords, snap.UsageRecordTotalMs)
	}
}
