package observability

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordRequest("/reservations", "POST", 201, time.Millisecond)
			m.RecordAdmission("submit", "ok")
		}()
	}
	wg.Wait()
	m.RecordError("/reservations", "POST", "SCHEDULING_CONFLICT")

	snap := m.Snapshot()
	if got := snap["requests"]["/reservations|POST|201"]; got != 10 {
		t.Fatalf("expected 10 requests, got %d", got)
	}
	if got := snap["admissions"]["submit|ok"]; got != 10 {
		t.Fatalf("expected 10 admissions, got %d", got)
	}
	if got := snap["errors"]["/reservations|POST|SCHEDULING_CONFLICT"]; got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordAdmission("confirm", "conflict")
	if m.Snapshot() != nil {
		t.Fatal("expected nil snapshot")
	}
}
