// Package heightstream wires config, worldgen, erosion, tilecache, and
// streaming into the renderer-facing surface a consumer embeds: configure,
// start, tick, shutdown, plus the event channel.
package heightstream

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/config"
	"github.com/pthm-cable/heightstream/erosion"
	"github.com/pthm-cable/heightstream/streaming"
	"github.com/pthm-cable/heightstream/telemetry"
	"github.com/pthm-cable/heightstream/tile"
	"github.com/pthm-cable/heightstream/tilecache"
	"github.com/pthm-cable/heightstream/worldgen"
)

// World is a configured, running instance of the streaming pipeline: one
// world seed, one parameter set, one on-disk cache root, one supervisor.
type World struct {
	cfg        *config.Config
	compositor *worldgen.Compositor
	simulator  *erosion.Simulator
	cache      *tilecache.Cache
	timing     *telemetry.TimingCollector
	output     *telemetry.OutputManager
	supervisor *streaming.Supervisor
}

// Configure validates cfg and builds a World from it. No disk I/O or
// generation happens before Start is called, beyond creating the cache
// root directory and, when HEIGHTSTREAM_TELEMETRY_DIR is set, that
// directory and its timing.csv. Returns an error immediately, with no component
// constructed, if cfg is invalid or the cache root cannot be created.
func Configure(cfg *config.Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	voronoiNoise, err := cfg.VoronoiNoiseParams()
	if err != nil {
		return nil, err
	}
	erosionParams, err := cfg.ErosionParams()
	if err != nil {
		return nil, err
	}

	cache, err := tilecache.New(cfg.Cache.Root)
	if err != nil {
		return nil, fmt.Errorf("heightstream: creating cache root: %w", err)
	}

	compositor := worldgen.NewCompositor(cfg.World.TileSize, voronoiNoise)
	simulator := erosion.NewSimulator(compositor, cfg.World.TileSize, cfg.World.Padding, erosionParams)

	timing := telemetry.NewTimingCollector(0)
	output, err := telemetry.NewOutputManager(os.Getenv("HEIGHTSTREAM_TELEMETRY_DIR"))
	if err != nil {
		return nil, fmt.Errorf("heightstream: creating telemetry output: %w", err)
	}

	supervisor := streaming.NewSupervisor(cfg.World.Seed, simulator, cache, cfg.StreamingConfig(), timing, output)

	return &World{
		cfg:        cfg,
		compositor: compositor,
		simulator:  simulator,
		cache:      cache,
		timing:     timing,
		output:     output,
		supervisor: supervisor,
	}, nil
}

// Start begins streaming around centerTile.
func (w *World) Start(centerTile tile.Coord) {
	w.supervisor.StartInitialBatch(centerTile)
}

// Tick advances the consumer's position and returns the current rendering
// snapshot. Never blocks on generation.
func (w *World) Tick(consumerPos, consumerVel r2.Vec) streaming.RenderingSnapshot {
	return w.supervisor.Tick(consumerPos, consumerVel)
}

// Events returns the one-way progress channel: BatchStarted, TileCompleted,
// BatchCompleted.
func (w *World) Events() <-chan telemetry.Event {
	return w.supervisor.Events()
}

// TimingStats reports the rolling tile-generation timing window.
func (w *World) TimingStats() telemetry.TimingStats {
	return w.timing.Stats()
}

// Shutdown stops the background worker and closes telemetry output. A tile
// that was mid-generation is dropped rather than persisted.
func (w *World) Shutdown() error {
	w.supervisor.Shutdown()
	return w.output.Close()
}
