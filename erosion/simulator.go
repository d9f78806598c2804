package erosion

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/tile"
	"github.com/pthm-cable/heightstream/worldgen"
)

// Simulator owns the brush (or texture offsets) and is reused across
// tiles rather than rebuilt per call.
type Simulator struct {
	compositor *worldgen.Compositor
	size       int32
	padding    int32
	params     Params
	brush      []Offset
}

// NewSimulator builds a simulator for a fixed tile size, padding, and
// immutable erosion + compositor configuration.
func NewSimulator(compositor *worldgen.Compositor, size, padding int32, p Params) *Simulator {
	var brush []Offset
	switch p.Kernel {
	case KernelTexture:
		if p.TextureMap != nil {
			brush = p.TextureMap.Offsets()
		} else {
			brush = DefaultBrush()
		}
	default:
		brush = DefaultBrush()
	}
	return &Simulator{compositor: compositor, size: size, padding: padding, params: p, brush: brush}
}

// Eroded produces the eroded heightmap for tc: the padded raw heightmap,
// eroded by every droplet whose simulation could touch it, run in global
// deterministic order, then cropped back to tile size.
func (s *Simulator) Eroded(tc tile.Coord) tile.Heightmap {
	padded := s.compositor.PaddedHeightmap(tc, s.padding)

	if !s.params.Enabled || s.params.DropletsPerTile <= 0 {
		return padded.Crop(int(s.size), int(s.padding))
	}

	var before tile.Heightmap
	blend := s.params.Intensity < 1
	if blend {
		before = padded.Clone()
	}

	candidates := enumerateDroplets(tc, s.size, s.padding, s.params)
	originX, originY := tc.WorldOrigin(s.size)
	originX -= s.padding
	originY -= s.padding

	for _, c := range candidates {
		spawn := r2.Vec{X: c.world.X - float64(originX), Y: c.world.Y - float64(originY)}
		simulateDroplet(padded, spawn, s.params, s.brush)
	}

	if blend {
		intensity := s.params.Intensity
		for i := range padded.Data {
			padded.Data[i] = lerp(before.Data[i], padded.Data[i], intensity)
		}
	}

	return padded.Crop(int(s.size), int(s.padding))
}
