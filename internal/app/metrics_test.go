package app

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	snapshot := NewMetrics().Snapshot()
	if snapshot.FullWraps != 0 || snapshot.RangeWraps != 0 || snapshot.Renders != 0 {
		t.Errorf("expected empty snapshot, got %+v", snapshot)
	}
	if snapshot.AvgRange != 0 {
		t.Errorf("expected zero average with no samples, got %s", snapshot.AvgRange)
	}
}

func TestMetrics_RecordWrapRange(t *testing.T) {
	m := NewMetrics()

	m.RecordWrapRange(2*time.Millisecond, 3)
	m.RecordWrapRange(6*time.Millisecond, -1)
	m.RecordWrapRange(1*time.Millisecond, 0)

	snapshot := m.Snapshot()
	if snapshot.RangeWraps != 3 {
		t.Errorf("expected 3 incremental wraps, got %d", snapshot.RangeWraps)
	}
	if snapshot.AvgRange != 3*time.Millisecond {
		t.Errorf("expected avg 3ms, got %s", snapshot.AvgRange)
	}
	if snapshot.MaxRange != 6*time.Millisecond {
		t.Errorf("expected max 6ms, got %s", snapshot.MaxRange)
	}
	if snapshot.RowsShifted != 4 {
		t.Errorf("expected 4 rows shifted, got %d", snapshot.RowsShifted)
	}
}

func TestMetrics_RecordWrapAndRender(t *testing.T) {
	m := NewMetrics()

	m.RecordWrap(4 * time.Millisecond)
	m.RecordRender(1 * time.Millisecond)
	m.RecordRender(3 * time.Millisecond)
	m.RecordEvent()

	snapshot := m.Snapshot()
	if snapshot.FullWraps != 1 || snapshot.AvgFullWrap != 4*time.Millisecond {
		t.Errorf("unexpected full wrap stats %+v", snapshot)
	}
	if snapshot.Renders != 2 || snapshot.AvgRender != 2*time.Millisecond {
		t.Errorf("unexpected render stats %+v", snapshot)
	}
	if snapshot.Events != 1 {
		t.Errorf("expected 1 event, got %d", snapshot.Events)
	}
	if !strings.Contains(snapshot.String(), "1 full wraps") {
		t.Errorf("unexpected summary %q", snapshot.String())
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordWrapRange(time.Duration(i*100+j), 1)
			}
		}(i)
	}
	wg.Wait()

	snapshot := m.Snapshot()
	if snapshot.RangeWraps != 800 {
		t.Errorf("expected 800 incremental wraps, got %d", snapshot.RangeWraps)
	}
	if snapshot.MaxRange != 799 {
		t.Errorf("expected max 799ns, got %d", snapshot.MaxRange)
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	if timer.Elapsed() < time.Millisecond {
		t.Error("expected at least 1ms elapsed")
	}
}
