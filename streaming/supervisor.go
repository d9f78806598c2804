package streaming

import (
	"log/slog"
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/erosion"
	"github.com/pthm-cable/heightstream/telemetry"
	"github.com/pthm-cable/heightstream/tile"
	"github.com/pthm-cable/heightstream/tilecache"
)

// Supervisor owns the persistent erosion simulator, the disk cache, and the
// one background generation worker, and exposes a non-blocking Tick to the
// consumer (renderer) thread. One atomic.Bool guards a single in-flight
// background job, a buffered work channel feeds a persistent worker
// goroutine rather than one goroutine spawned per job, and the published
// state is swapped through an atomic.Pointer, so the supervisor owns the
// generator instead of each job spawning its own.
type Supervisor struct {
	seed   uint32
	cfg    Config
	sim    *erosion.Simulator
	cache  *tilecache.Cache
	timing *telemetry.TimingCollector
	output *telemetry.OutputManager

	cur atomic.Pointer[state]

	generating atomic.Bool
	work       chan tile.Rect
	events     chan telemetry.Event
	shutdown   chan struct{}
	done       chan struct{}
}

// NewSupervisor constructs a supervisor and starts its background worker.
// sim and cache are expected to already be configured for world_seed; the
// supervisor does not own reconfiguration — parameters are an immutable
// record for the supervisor's lifetime, so a reconfigure means building a
// new Supervisor rather than mutating this one.
func NewSupervisor(seed uint32, sim *erosion.Simulator, cache *tilecache.Cache, cfg Config, timing *telemetry.TimingCollector, output *telemetry.OutputManager) *Supervisor {
	s := &Supervisor{
		seed:     seed,
		cfg:      cfg,
		sim:      sim,
		cache:    cache,
		timing:   timing,
		output:   output,
		work:     make(chan tile.Rect, 1),
		events:   make(chan telemetry.Event, 4*int(cfg.BatchSize)*int(cfg.BatchSize)),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.cur.Store(newState())
	go s.run()
	return s
}

// Events returns the one-way progress event channel: the supervisor owns
// the generator and reports progress forward through this channel, and
// nothing reads back into it.
func (s *Supervisor) Events() <-chan telemetry.Event {
	return s.events
}

// StartInitialBatch schedules generation of a batch_size square centered on
// center. Idempotent while a batch is already in flight: the second call is
// ignored with a warning.
func (s *Supervisor) StartInitialBatch(center tile.Coord) {
	rect := tile.Rect{
		Origin: tile.Coord{TX: center.TX - s.cfg.BatchSize/2, TY: center.TY - s.cfg.BatchSize/2},
		W:      s.cfg.BatchSize,
		H:      s.cfg.BatchSize,
	}
	s.enqueue(rect)
}

// Tick is the non-blocking consumer-facing entry point, run once per
// renderer frame. It never blocks: it reads the published state and
// returns immediately, skipping the boundary-proximity check entirely
// while a batch is already generating.
func (s *Supervisor) Tick(consumerPos, consumerVel r2.Vec) RenderingSnapshot {
	consumerTile := tile.Coord{
		TX: floorDiv(consumerPos.X, float64(s.cfg.TileSize)),
		TY: floorDiv(consumerPos.Y, float64(s.cfg.TileSize)),
	}

	cur := s.cur.Load()
	if !s.generating.Load() && nearEdge(consumerTile, cur.activeRegion, s.cfg.EdgeThreshold) {
		rect := predictNext(consumerTile, consumerVel, s.cfg.BatchSize)
		if !containsRegion(cur.completedRegions, rect) {
			s.enqueue(rect)
		}
	}

	return s.renderingSnapshot(consumerTile)
}

// Shutdown signals the worker to exit at the next tile boundary and waits
// for it to stop. Any tile already in flight finishes computing but is
// dropped rather than installed or persisted.
func (s *Supervisor) Shutdown() {
	close(s.shutdown)
	<-s.done
}

func (s *Supervisor) enqueue(rect tile.Rect) {
	if !s.generating.CompareAndSwap(false, true) {
		slog.Warn("streaming: batch requested while one is already in flight; ignoring", "rect", rect)
		return
	}
	s.work <- rect
}

func (s *Supervisor) renderingSnapshot(consumerTile tile.Coord) RenderingSnapshot {
	cur := s.cur.Load()
	var out RenderingSnapshot
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			tc := consumerTile.Add(dx, dy)
			if h, ok := cur.index[tc]; ok {
				out.Tiles = append(out.Tiles, TileEntry{Coord: tc, Heightmap: h})
			}
		}
	}
	return out
}

func (s *Supervisor) emit(e telemetry.Event) {
	select {
	case s.events <- e:
	default:
		slog.Warn("streaming: event channel full, dropping event", "type", e.Type)
	}
}

func nearEdge(tc tile.Coord, active tile.Rect, threshold int32) bool {
	if active.W == 0 || active.H == 0 {
		return false
	}
	left := tc.TX - active.Origin.TX
	right := (active.Origin.TX + active.W - 1) - tc.TX
	top := tc.TY - active.Origin.TY
	bottom := (active.Origin.TY + active.H - 1) - tc.TY
	return left <= threshold || right <= threshold || top <= threshold || bottom <= threshold
}

func floorDiv(v, size float64) int32 {
	return int32(math.Floor(v / size))
}
