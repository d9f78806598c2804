package streaming

import "github.com/pthm-cable/heightstream/tile"

// TileEntry pairs a tile coordinate with its materialized heightmap, one
// entry of a RenderingSnapshot.
type TileEntry struct {
	Coord     tile.Coord
	Heightmap tile.Heightmap
}

// RenderingSnapshot is the consumer-facing view returned by Tick: up to the
// 3x3 neighborhood of the consumer's tile, restricted to tiles currently
// resident in the index. It must be internally consistent: never a mix of
// an evicted tile's stale data and a freshly installed neighbor's new data.
// That holds here because every entry is read from the same immutable
// state snapshot (see state.go).
type RenderingSnapshot struct {
	Tiles []TileEntry
}
