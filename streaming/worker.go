package streaming

import (
	"log/slog"

	"github.com/pthm-cable/heightstream/telemetry"
	"github.com/pthm-cable/heightstream/tile"
)

// run is the supervisor's single persistent generation worker. It blocks
// only on the work queue, the erosion simulator, and cache I/O — never on
// the consumer.
func (s *Supervisor) run() {
	defer close(s.done)
	for {
		select {
		case rect := <-s.work:
			s.generateBatch(rect)
		case <-s.shutdown:
			return
		}
	}
}

// generateBatch runs the batch generation protocol: spiral traversal,
// per-tile cache/compute/install, then append-and-evict.
func (s *Supervisor) generateBatch(rect tile.Rect) {
	defer s.generating.Store(false)

	tiles := spiralOrder(rect)
	s.emit(telemetry.Event{Type: telemetry.EventBatchStarted, Total: len(tiles)})

	for _, tc := range tiles {
		h, fromCache := s.produceTile(tc)

		select {
		case <-s.shutdown:
			// The tile finished computing (Go gives us no way to abort
			// mid-computation) but is dropped rather than installed or
			// persisted.
			return
		default:
		}

		s.installTile(tc, h)
		s.emit(telemetry.Event{Type: telemetry.EventTileCompleted, Coord: tc, FromCache: fromCache})
	}

	s.completeBatch(rect)
}

// produceTile resolves a tile one of three ways: already resident in the
// published state, found on disk in the cache, or freshly generated and
// persisted.
func (s *Supervisor) produceTile(tc tile.Coord) (h tile.Heightmap, fromCache bool) {
	if s.timing != nil {
		s.timing.StartTile()
	}

	if existing, ok := s.cur.Load().index[tc]; ok {
		if s.timing != nil {
			s.timing.MarkCacheHit()
		}
		s.endTile(tc)
		return existing, true
	}

	if s.timing != nil {
		s.timing.StartPhase(telemetry.PhaseCacheIO)
	}
	if loaded, ok := s.cache.Load(s.seed, tc); ok {
		if s.timing != nil {
			s.timing.MarkCacheHit()
		}
		s.endTile(tc)
		return loaded, true
	}

	if s.timing != nil {
		s.timing.StartPhase(telemetry.PhaseErosion)
	}
	generated := s.sim.Eroded(tc)

	select {
	case <-s.shutdown:
		// Shutdown arrived while the tile was computing: skip persisting it;
		// generateBatch drops it before installation.
		s.endTile(tc)
		return generated, false
	default:
	}

	if s.timing != nil {
		s.timing.StartPhase(telemetry.PhaseCacheIO)
	}
	if err := s.cache.Save(s.seed, tc, generated); err != nil {
		slog.Warn("streaming: failed to persist generated tile", "coord", tc, "err", err)
	}
	s.endTile(tc)
	return generated, false
}

// endTile closes out the timing collector's current sample and, if an
// output manager is attached, appends its flat CSV record.
func (s *Supervisor) endTile(tc tile.Coord) {
	if s.timing == nil {
		return
	}
	s.timing.EndTile()
	if s.output == nil {
		return
	}
	rec := telemetry.ToRecord(tc.TX, tc.TY, s.timing.LastSample())
	if err := s.output.WriteTiming(rec); err != nil {
		slog.Warn("streaming: failed to write tile timing record", "coord", tc, "err", err)
	}
}

func (s *Supervisor) installTile(tc tile.Coord, h tile.Heightmap) {
	s.cur.Store(s.cur.Load().withTile(tc, h))
}

func (s *Supervisor) completeBatch(rect tile.Rect) {
	s.cur.Store(s.cur.Load().withBatchCompleted(rect, s.cfg.MaxCachedBatches))
	// Clear the flag before announcing completion, so a consumer that has
	// seen BatchCompleted never observes this batch as still generating.
	s.generating.Store(false)
	s.emit(telemetry.Event{Type: telemetry.EventBatchCompleted, Rect: rect})
}
