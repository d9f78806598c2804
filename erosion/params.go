// Package erosion implements the padded, causally-deterministic hydraulic
// erosion simulator: component C of the pipeline. It builds a padded raw
// heightmap, enumerates every droplet that could touch it, simulates them
// in a single globally deterministic order, and crops the result back to
// tile size.
package erosion

import (
	"fmt"
	"math"
)

// Kernel selects how a droplet deposits/erodes mass into the heightmap.
type Kernel uint8

const (
	// KernelBrush is the default: a small fixed weighted neighborhood. This
	// is the only kernel the seamlessness guarantee is proven for.
	KernelBrush Kernel = iota
	// KernelTexture is an alternate kernel that samples a 2D intensity map
	// centered on the droplet instead of a fixed brush. It obeys the same
	// causal-ordering discipline as KernelBrush; only the erosion footprint
	// differs, since deposition uses the same bilinear four-cell split for
	// both kernels.
	KernelTexture
)

// OrderKeyScale is the multiplier used when deriving a droplet's order key:
// the key hashes floor(wx*OrderKeyScale), entangling it with a spatial grid
// of about 1/OrderKeyScale world units. Exposed as a named constant rather
// than buried as a magic number, so the behavior can be revisited without
// touching the ordering logic itself.
const OrderKeyScale = 1000

// Params is the full erosion parameter surface. Seed is the world seed also
// used to derive tile-specific droplet-candidate PRNGs and order keys.
type Params struct {
	Seed   uint32
	Kernel Kernel

	Enabled                bool
	Intensity              float32
	DropletsPerTile        int
	MaxLifetime            int
	SedimentCapacityFactor float32
	MinSedimentCapacity    float32
	DepositSpeed           float32
	ErodeSpeed             float32
	EvaporateSpeed         float32
	Gravity                float32
	StartSpeed             float32
	StartWater             float32
	Inertia                float32
	BrushRadius            int32

	// TextureMap is sampled instead of the brush when Kernel is
	// KernelTexture; ignored otherwise.
	TextureMap *IntensityMap
}

// VMax bounds the Euclidean travel distance of one droplet:
// max_lifetime * sqrt(2*gravity*H_max) with H_max pinned at 1. This can be
// too tight a bound when amplitude exceeds 1; this implementation preserves
// the formula as stated rather than silently widening the search region.
func (p Params) VMax() float64 {
	const hMax = 1.0
	v := 2 * float64(p.Gravity) * hMax
	if v < 0 {
		v = 0
	}
	return float64(p.MaxLifetime) * math.Sqrt(v)
}

// Validate reports a configuration error for an out-of-range erosion
// parameter.
func (p Params) Validate() error {
	if !p.Enabled {
		return nil
	}
	if p.DropletsPerTile < 0 {
		return fmt.Errorf("erosion: droplets_per_tile must be >= 0, got %d", p.DropletsPerTile)
	}
	if p.MaxLifetime <= 0 {
		return fmt.Errorf("erosion: max_lifetime must be positive, got %d", p.MaxLifetime)
	}
	if p.Gravity <= 0 {
		return fmt.Errorf("erosion: gravity must be positive, got %v", p.Gravity)
	}
	if p.BrushRadius <= 0 {
		return fmt.Errorf("erosion: brush_radius must be positive, got %d", p.BrushRadius)
	}
	if p.Kernel == KernelTexture && p.TextureMap == nil {
		return fmt.Errorf("erosion: kernel is texture but no texture_map was supplied")
	}
	return nil
}
