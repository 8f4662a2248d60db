package store

import (
	"sync"
	"testing"
	"time"

	"github.com/homepulse/homepulse/pkg/types"
)

func env(id string) *types.ReportEnvelope {
	return &types.ReportEnvelope{
		InstanceID: id,
		Report:     types.HealthReport{GlobalScore: 90},
	}
}

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestPutAndGet(t *testing.T) {
	st := New(5 * time.Minute)
	st.Put(env("home-1"))

	e, ok := st.Get("home-1")
	if !ok {
		t.Fatal("Get: expected entry, got none")
	}
	if e.Envelope.InstanceID != "home-1" {
		t.Errorf("InstanceID: got %q, want home-1", e.Envelope.InstanceID)
	}
}

func TestGet_Missing(t *testing.T) {
	st := New(5 * time.Minute)
	if _, ok := st.Get("unknown"); ok {
		t.Fatal("Get on empty store: expected false, got true")
	}
}

func TestPut_Overwrites(t *testing.T) {
	st := New(5 * time.Minute)
	e1 := env("home")
	e1.Report.GlobalScore = 100
	e2 := env("home")
	e2.Report.GlobalScore = 55

	st.Put(e1)
	st.Put(e2)

	e, ok := st.Get("home")
	if !ok {
		t.Fatal("Get: expected entry after two Puts")
	}
	if e.Envelope.Report.GlobalScore != 55 {
		t.Errorf("GlobalScore: got %d, want 55 (latest report wins)", e.Envelope.Report.GlobalScore)
	}
}

func TestList_ExcludesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	// Put two entries at different times.
	st.now = fixedClock(base.Add(-10 * time.Minute)) // stale
	st.Put(env("old"))

	st.now = fixedClock(base) // live
	st.Put(env("new"))

	// List uses current time = base.
	st.now = fixedClock(base)
	entries := st.List()

	if len(entries) != 1 {
		t.Fatalf("List: got %d entries, want 1", len(entries))
	}
	if entries[0].Envelope.InstanceID != "new" {
		t.Errorf("List[0].InstanceID: got %q, want new", entries[0].Envelope.InstanceID)
	}
}

func TestCount_IncludesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Put(env("old"))

	st.now = fixedClock(base)
	st.Put(env("new"))

	// Count includes both; stale not yet evicted.
	if n := st.Count(); n != 2 {
		t.Errorf("Count: got %d, want 2", n)
	}
}

func TestEvict_RemovesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Put(env("old1"))
	st.Put(env("old2"))

	st.now = fixedClock(base)
	st.Put(env("live"))

	removed := st.Evict(base)
	if removed != 2 {
		t.Errorf("Evict: removed %d, want 2", removed)
	}
	if st.Count() != 1 {
		t.Errorf("Count after evict: got %d, want 1", st.Count())
	}
}

func TestEvict_NoOp_AllLive(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base)
	st.Put(env("home"))

	if removed := st.Evict(base); removed != 0 {
		t.Errorf("Evict on live entry: removed %d, want 0", removed)
	}
}

func TestMultipleInstances(t *testing.T) {
	st := New(5 * time.Minute)
	for _, id := range []string{"home", "cabin", "office"} {
		st.Put(env(id))
	}

	if entries := st.List(); len(entries) != 3 {
		t.Errorf("List: got %d entries, want 3", len(entries))
	}
}

func TestConcurrentPuts(t *testing.T) {
	st := New(5 * time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Put(env("concurrent"))
		}()
	}
	wg.Wait()

	// All Puts share one instance ID, so exactly one entry remains.
	if st.Count() != 1 {
		t.Errorf("Count after concurrent puts: got %d, want 1", st.Count())
	}
}

func TestConcurrentMixedOps(t *testing.T) {
	st := New(5 * time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Put(env("home-a"))
		}()
		go func() {
			defer wg.Done()
			st.List()
		}()
	}
	wg.Wait()
}
