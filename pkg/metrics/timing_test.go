package metrics

import (
	"testing"
	"time"
)

func TestTimingMetricRecord(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	s := m.Stats()
	if s.Count != 2 || s.MinMs != 2 || s.MaxMs != 4 || s.AvgMs != 3 || s.TotalMs != 6 {
		t.Errorf("stats = %+v", s)
	}
	m.Reset()
	if m.Count() != 0 || m.Stats().MinMs != 0 {
		t.Errorf("reset left %+v", m.Stats())
	}
}

func TestDisabledRecordsNothing(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	c := newCounter("off")
	c.Inc()
	if m.Count() != 0 || c.Value() != 0 {
		t.Error("disabled metrics should not record")
	}
}

func TestTimerWithCallback(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("cb")
	var got time.Duration
	TimerWithCallback(m, func(d time.Duration) { got = d })()
	if m.Count() != 1 || got <= 0 {
		t.Errorf("count=%d duration=%v", m.Count(), got)
	}
	if stop := Timer(nil); stop == nil {
		t.Error("Timer(nil) must return a no-op")
	}
}

func TestAllTimingStatsAndCounters(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	RebuildBookmarks.Record(5 * time.Millisecond)
	RebuildActive.Record(time.Millisecond)
	HintsDropped.Inc()

	stats := AllTimingStats()
	if len(stats) != 2 || stats[0].Name != "rebuild_bookmarks" {
		t.Errorf("stats = %+v", stats)
	}
	if v := CounterValues(); v["hints_dropped"] != 1 || v["hints_consumed"] != 0 {
		t.Errorf("counters = %v", v)
	}
}
