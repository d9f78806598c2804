package worldgen

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/noise"
	"github.com/pthm-cable/heightstream/tile"
)

// Compositor evaluates the Voronoi+noise field. A single Compositor is
// constructed once and reused across every tile the supervisor generates;
// it holds only immutable parameters and the shared tile size, never
// per-tile state.
type Compositor struct {
	Params Params
	Size   int32
}

// NewCompositor builds a compositor for a fixed tile size and immutable
// parameter set.
func NewCompositor(size int32, p Params) *Compositor {
	return &Compositor{Params: p, Size: size}
}

// HeightAt evaluates the composite height at world-space pixel (wx, wy).
// This is the pure function neighboring-tile seamlessness relies on: its
// result depends only on (wx, wy) and c's parameters, never on which tile
// is sampling it.
func (c *Compositor) HeightAt(wx, wy float64) float32 {
	p := c.Params
	var hv, hn float32

	if p.EnableVoronoi {
		hv = c.voronoiHeight(wx, wy)
	}
	if p.EnableNoise {
		n := noise.FBM(float32(wx), float32(wy), p.NoiseSeed, p.NoiseFreq, p.NoiseOctaves, p.NoiseLacunarity, p.NoisePersistence)
		hn = (n + 1) / 2 // remap [-1,1] -> [0,1]
	}

	h := float32(0.5)
	if p.EnableNoise {
		h += (hn - 0.5) * p.NoiseIntensity
	}
	if p.EnableVoronoi {
		h += (hv - 0.5) * p.VoronoiIntensity
	}
	return h
}

func (c *Compositor) voronoiHeight(wx, wy float64) float32 {
	p := c.Params
	d1, d2 := nearestTwo(r2.Vec{X: wx, Y: wy}, c.Size, p)
	d := d1 / float64(c.Size)

	scaled := applyScaling(p.Scaling, d, float64(p.Falloff)) * float64(p.Amplitude)
	if d1 > 0 {
		scaled += float64(p.RidgeMultiplier) * (d2 - d1) / d1
	}
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 1 {
		scaled = 1
	}
	return float32(p.MinH) + float32(scaled)*(p.MaxH-p.MinH)
}

// RawHeightmap samples the S x S raw heightmap for tile tc.
func (c *Compositor) RawHeightmap(tc tile.Coord) tile.Heightmap {
	h := tile.NewHeightmap(int(c.Size))
	ox, oy := tc.WorldOrigin(c.Size)
	for y := 0; y < int(c.Size); y++ {
		wy := float64(oy) + float64(y)
		for x := 0; x < int(c.Size); x++ {
			wx := float64(ox) + float64(x)
			h.Set(x, y, c.HeightAt(wx, wy))
		}
	}
	return h
}

// PaddedHeightmap samples a (S+2P) x (S+2P) heightmap centered on tile tc,
// used by the erosion simulator.
func (c *Compositor) PaddedHeightmap(tc tile.Coord, padding int32) tile.Heightmap {
	full := int(c.Size + 2*padding)
	h := tile.NewHeightmap(full)
	ox, oy := tc.WorldOrigin(c.Size)
	ox -= padding
	oy -= padding
	for y := 0; y < full; y++ {
		wy := float64(oy) + float64(y)
		for x := 0; x < full; x++ {
			wx := float64(ox) + float64(x)
			h.Set(x, y, c.HeightAt(wx, wy))
		}
	}
	return h
}
