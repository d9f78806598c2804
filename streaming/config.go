// Package streaming implements the batched, cached streaming supervisor
// that tracks a consumer's position, keeps a bounded working set of
// generated tiles resident in memory, and predicts upcoming work along the
// consumer's direction of travel.
package streaming

// Config holds the supervisor's immutable batching policy.
type Config struct {
	TileSize         int32 // S: world-space edge length of one tile
	BatchSize        int32 // tiles per side of a batch
	EdgeThreshold    int32 // trigger distance, in tiles, from active_region's boundary
	MaxCachedBatches int   // eviction bound on completed_regions
}
