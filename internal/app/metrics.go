package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics counts the work the viewer does on the wrap index and the screen.
// It is safe for concurrent use.
type Metrics struct {
	fullWraps   atomic.Uint64
	fullWrapNs  atomic.Int64
	rangeWraps  atomic.Uint64
	rangeWrapNs atomic.Int64
	maxRangeNs  atomic.Int64
	rowsShifted atomic.Int64

	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64

	eventCount atomic.Uint64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordWrap records a full rewrap of the document.
func (m *Metrics) RecordWrap(duration time.Duration) {
	m.fullWraps.Add(1)
	m.fullWrapNs.Add(duration.Nanoseconds())
}

// RecordWrapRange records an incremental rewrap that moved the rows after
// the edit by rowDelta.
func (m *Metrics) RecordWrapRange(duration time.Duration, rowDelta int) {
	ns := duration.Nanoseconds()
	m.rangeWraps.Add(1)
	m.rangeWrapNs.Add(ns)
	if rowDelta < 0 {
		rowDelta = -rowDelta
	}
	m.rowsShifted.Add(int64(rowDelta))

	for {
		old := m.maxRangeNs.Load()
		if ns <= old || m.maxRangeNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(duration time.Duration) {
	m.renderCount.Add(1)
	m.renderTotalNs.Add(duration.Nanoseconds())
}

// RecordEvent counts a handled input event.
func (m *Metrics) RecordEvent() {
	m.eventCount.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		FullWraps:   m.fullWraps.Load(),
		RangeWraps:  m.rangeWraps.Load(),
		MaxRange:    time.Duration(m.maxRangeNs.Load()),
		RowsShifted: m.rowsShifted.Load(),
		Renders:     m.renderCount.Load(),
		Events:      m.eventCount.Load(),
	}
	s.AvgFullWrap = average(m.fullWrapNs.Load(), s.FullWraps)
	s.AvgRange = average(m.rangeWrapNs.Load(), s.RangeWraps)
	s.AvgRender = average(m.renderTotalNs.Load(), s.Renders)
	return s
}

func average(totalNs int64, count uint64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / int64(count))
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	FullWraps   uint64
	AvgFullWrap time.Duration
	RangeWraps  uint64
	AvgRange    time.Duration
	MaxRange    time.Duration
	RowsShifted int64
	Renders     uint64
	AvgRender   time.Duration
	Events      uint64
}

func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("%d full wraps (avg %s), %d incremental wraps (avg %s, max %s, %d rows shifted), %d renders (avg %s), %d events",
		s.FullWraps, s.AvgFullWrap, s.RangeWraps, s.AvgRange, s.MaxRange, s.RowsShifted, s.Renders, s.AvgRender, s.Events)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
