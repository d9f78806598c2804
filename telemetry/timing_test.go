package telemetry

import (
	"testing"
	"time"
)

func TestTimingCollector_BasicTiming(t *testing.T) {
	c := NewTimingCollector(10)

	for i := 0; i < 5; i++ {
		c.StartTile()
		c.StartPhase(PhaseWorldgen)
		time.Sleep(100 * time.Microsecond)
		c.StartPhase(PhaseErosion)
		time.Sleep(200 * time.Microsecond)
		c.EndTile()
	}

	stats := c.Stats()
	if stats.AvgTileDuration <= 0 {
		t.Error("expected positive average tile duration")
	}
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}
	if _, ok := stats.PhaseAvg[PhaseWorldgen]; !ok {
		t.Error("expected worldgen phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseErosion]; !ok {
		t.Error("expected erosion phase to be tracked")
	}
}

func TestTimingCollector_RollingWindow(t *testing.T) {
	c := NewTimingCollector(5)

	for i := 0; i < 10; i++ {
		c.StartTile()
		c.StartPhase(PhaseWorldgen)
		c.EndTile()
	}

	stats := c.Stats()
	if stats.AvgTileDuration <= 0 {
		t.Error("expected positive average tile duration after window filled")
	}
	if stats.TilesPerSecond <= 0 {
		t.Error("expected positive tiles per second")
	}
}

func TestTimingCollector_CacheHitRate(t *testing.T) {
	c := NewTimingCollector(4)

	for i := 0; i < 4; i++ {
		c.StartTile()
		if i%2 == 0 {
			c.MarkCacheHit()
		}
		c.EndTile()
	}

	stats := c.Stats()
	if stats.CacheHitRate != 0.5 {
		t.Fatalf("CacheHitRate = %v, want 0.5", stats.CacheHitRate)
	}
}

func TestTimingCollector_Percentiles(t *testing.T) {
	c := NewTimingCollector(100)
	for i := 0; i < 100; i++ {
		c.StartTile()
		time.Sleep(time.Microsecond)
		c.EndTile()
	}
	stats := c.Stats()
	if stats.P50 <= 0 || stats.P90 < stats.P50 || stats.P99 < stats.P90 {
		t.Fatalf("percentiles not monotonic: p50=%v p90=%v p99=%v", stats.P50, stats.P90, stats.P99)
	}
}

func TestOutputManager_WriteTiming(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	rec := ToRecord(1, 2, TimingSample{
		TileDuration: 5 * time.Millisecond,
		Phases:       map[string]time.Duration{PhaseWorldgen: 3 * time.Millisecond},
	})
	if err := om.WriteTiming(rec); err != nil {
		t.Fatalf("WriteTiming: %v", err)
	}
	if err := om.WriteTiming(rec); err != nil {
		t.Fatalf("WriteTiming second: %v", err)
	}
}

func TestOutputManager_DisabledIsNoOp(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil OutputManager for empty dir")
	}
	if err := om.WriteTiming(TimingRecord{}); err != nil {
		t.Fatalf("WriteTiming on nil manager: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close on nil manager: %v", err)
	}
}
