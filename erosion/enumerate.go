package erosion

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/noise"
	"github.com/pthm-cable/heightstream/tile"
)

// candidate is one droplet spawn point plus its global ordering key.
type candidate struct {
	world    r2.Vec
	orderKey uint32
}

// enumerateDroplets finds every tile whose world extent intersects the
// search region around tc's padded heightmap, generates each such tile's
// candidate spawn points with a tile-seeded PRNG, keeps only the ones that
// actually fall in the search region, and returns them sorted ascending by
// order key. Two neighboring tiles computing overlapping search regions
// will always agree on exactly which droplets they share and in what
// relative order those droplets run, which is what makes the erosion pass
// seamless.
func enumerateDroplets(tc tile.Coord, size, padding int32, p Params) []candidate {
	if p.DropletsPerTile <= 0 {
		return nil
	}

	vmax := p.VMax()
	ox, oy := tc.WorldOrigin(size)
	regionMinX := float64(ox-padding) - vmax
	regionMaxX := float64(ox+size+padding) + vmax
	regionMinY := float64(oy-padding) - vmax
	regionMaxY := float64(oy+size+padding) + vmax

	minTX := int32(math.Floor(regionMinX / float64(size)))
	maxTX := int32(math.Ceil(regionMaxX/float64(size))) - 1
	minTY := int32(math.Floor(regionMinY / float64(size)))
	maxTY := int32(math.Ceil(regionMaxY/float64(size))) - 1

	var out []candidate
	for ty := minTY; ty <= maxTY; ty++ {
		for tx := minTX; tx <= maxTX; tx++ {
			src := tile.Coord{TX: tx, TY: ty}
			tileSeed := noise.Hash2(tx, ty, p.Seed)
			sox, soy := src.WorldOrigin(size)
			for i := 0; i < p.DropletsPerTile; i++ {
				fx := noise.RandF32(tileSeed, uint32(2*i))
				fy := noise.RandF32(tileSeed, uint32(2*i+1))
				wx := float64(sox) + float64(fx)*float64(size)
				wy := float64(soy) + float64(fy)*float64(size)

				if wx < regionMinX || wx >= regionMaxX || wy < regionMinY || wy >= regionMaxY {
					continue
				}

				ikx := int32(math.Floor(wx * OrderKeyScale))
				iky := int32(math.Floor(wy * OrderKeyScale))
				key := noise.Hash2(ikx, iky, p.Seed)
				out = append(out, candidate{world: r2.Vec{X: wx, Y: wy}, orderKey: key})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].orderKey != out[j].orderKey {
			return out[i].orderKey < out[j].orderKey
		}
		if out[i].world.X != out[j].world.X {
			return out[i].world.X < out[j].world.X
		}
		return out[i].world.Y < out[j].world.Y
	})
	return out
}
