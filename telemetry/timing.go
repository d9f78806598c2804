package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for a tile's generation pipeline.
const (
	PhaseWorldgen = "worldgen"
	PhaseErosion  = "erosion"
	PhaseCacheIO  = "cache_io"
)

// TimingSample holds timing data for a single tile's generation.
type TimingSample struct {
	TileDuration time.Duration
	Phases       map[string]time.Duration
	FromCache    bool
}

// TimingCollector tracks tile generation performance over a rolling window.
type TimingCollector struct {
	windowSize    int
	samples       []TimingSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tileStart     time.Time
	phaseStart    time.Time
	lastPhase     string
	fromCache     bool
}

// NewTimingCollector creates a collector averaging over the last windowSize
// tiles.
func NewTimingCollector(windowSize int) *TimingCollector {
	if windowSize < 1 {
		windowSize = 64
	}
	return &TimingCollector{
		windowSize:    windowSize,
		samples:       make([]TimingSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTile begins timing a new tile.
func (c *TimingCollector) StartTile() {
	c.tileStart = time.Now()
	c.currentPhases = make(map[string]time.Duration)
	c.lastPhase = ""
	c.fromCache = false
}

// StartPhase begins timing a named pipeline phase, closing the previous one.
func (c *TimingCollector) StartPhase(phase string) {
	now := time.Now()
	if c.lastPhase != "" {
		c.currentPhases[c.lastPhase] += now.Sub(c.phaseStart)
	}
	c.phaseStart = now
	c.lastPhase = phase
}

// MarkCacheHit records that the tile being timed was served from tilecache
// rather than regenerated.
func (c *TimingCollector) MarkCacheHit() {
	c.fromCache = true
}

// EndTile closes the current phase and records the sample.
func (c *TimingCollector) EndTile() {
	now := time.Now()
	if c.lastPhase != "" {
		c.currentPhases[c.lastPhase] += now.Sub(c.phaseStart)
	}

	c.samples[c.writeIndex] = TimingSample{
		TileDuration: now.Sub(c.tileStart),
		Phases:       c.currentPhases,
		FromCache:    c.fromCache,
	}
	c.writeIndex = (c.writeIndex + 1) % c.windowSize
	if c.sampleCount < c.windowSize {
		c.sampleCount++
	}
}

// LastSample returns the most recently recorded tile's timing sample, for
// callers that want to export every tile rather than just the rolling
// window's aggregate.
func (c *TimingCollector) LastSample() TimingSample {
	idx := (c.writeIndex - 1 + c.windowSize) % c.windowSize
	return c.samples[idx]
}

// TimingStats holds aggregated performance statistics over a window.
type TimingStats struct {
	AvgTileDuration time.Duration
	MinTileDuration time.Duration
	MaxTileDuration time.Duration
	P50, P90, P99   time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TilesPerSecond float64
	CacheHitRate   float64
}

// Stats computes aggregated statistics over the current window.
func (c *TimingCollector) Stats() TimingStats {
	if c.sampleCount == 0 {
		return TimingStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	durations := make([]float64, c.sampleCount)
	phaseSum := make(map[string]time.Duration)
	var hits int

	var total time.Duration
	for i := 0; i < c.sampleCount; i++ {
		s := c.samples[i]
		durations[i] = float64(s.TileDuration)
		total += s.TileDuration
		if s.FromCache {
			hits++
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(c.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(c.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var ticksPerSec float64
	if avg > 0 {
		ticksPerSec = float64(time.Second) / float64(avg)
	}

	sorted := append([]float64(nil), durations...)
	floats.Sort(sorted)

	return TimingStats{
		AvgTileDuration: avg,
		MinTileDuration: time.Duration(floats.Min(durations)),
		MaxTileDuration: time.Duration(floats.Max(durations)),
		P50:             time.Duration(stat.Quantile(0.50, stat.Empirical, sorted, nil)),
		P90:             time.Duration(stat.Quantile(0.90, stat.Empirical, sorted, nil)),
		P99:             time.Duration(stat.Quantile(0.99, stat.Empirical, sorted, nil)),
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		TilesPerSecond:  ticksPerSec,
		CacheHitRate:    float64(hits) / float64(c.sampleCount),
	}
}

// LogStats logs the timing statistics using slog.
func (s TimingStats) LogStats() {
	attrs := []any{
		"avg_tile_us", s.AvgTileDuration.Microseconds(),
		"p50_us", s.P50.Microseconds(),
		"p90_us", s.P90.Microseconds(),
		"p99_us", s.P99.Microseconds(),
		"tiles_per_sec", s.TilesPerSecond,
		"cache_hit_rate", s.CacheHitRate,
	}
	for _, phase := range []string{PhaseWorldgen, PhaseErosion, PhaseCacheIO} {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", pct)
		}
	}
	slog.Info("tile timing", attrs...)
}

// TimingRecord is a flat struct for CSV export of a single tile's timing.
type TimingRecord struct {
	TX         int32 `csv:"tx"`
	TY         int32 `csv:"ty"`
	FromCache  bool  `csv:"from_cache"`
	TotalUS    int64 `csv:"total_us"`
	WorldgenUS int64 `csv:"worldgen_us"`
	ErosionUS  int64 `csv:"erosion_us"`
	CacheIOUS  int64 `csv:"cache_io_us"`
}

// ToRecord converts a timed tile into its flat CSV record.
func ToRecord(tx, ty int32, s TimingSample) TimingRecord {
	return TimingRecord{
		TX:         tx,
		TY:         ty,
		FromCache:  s.FromCache,
		TotalUS:    s.TileDuration.Microseconds(),
		WorldgenUS: s.Phases[PhaseWorldgen].Microseconds(),
		ErosionUS:  s.Phases[PhaseErosion].Microseconds(),
		CacheIOUS:  s.Phases[PhaseCacheIO].Microseconds(),
	}
}
