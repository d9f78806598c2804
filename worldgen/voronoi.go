package worldgen

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/noise"
	"github.com/pthm-cable/heightstream/tile"
)

// tilePoints generates up to p.NPoints world-space Voronoi points for tile
// tc, seeded by Hash2(tc.TX, tc.TY, p.Seed) as the tile-specific PRNG seed.
// The set depends only on tc, size, and p, never on who is asking, which is
// what makes two overlapping 3x3 neighborhoods agree on shared points at a
// tile edge.
func tilePoints(tc tile.Coord, size int32, p Params) []r2.Vec {
	if p.NPoints == 0 {
		return nil
	}
	tileSeed := noise.Hash2(tc.TX, tc.TY, p.Seed)
	ox, oy := float64(tc.TX)*float64(size), float64(tc.TY)*float64(size)
	pts := make([]r2.Vec, p.NPoints)
	for i := uint16(0); i < p.NPoints; i++ {
		fx := noise.RandF32(tileSeed, uint32(2*i))
		fy := noise.RandF32(tileSeed, uint32(2*i+1))
		pts[i] = r2.Vec{X: ox + float64(fx)*float64(size), Y: oy + float64(fy)*float64(size)}
	}
	return pts
}

// nearestTwo finds the closest and second-closest Euclidean distances from
// world point pt to the Voronoi points contributed by the 3x3 tile
// neighborhood around the tile containing pt.
func nearestTwo(pt r2.Vec, size int32, p Params) (d1, d2 float64) {
	homeTX := int32(math.Floor(pt.X / float64(size)))
	homeTY := int32(math.Floor(pt.Y / float64(size)))
	home := tile.Coord{TX: homeTX, TY: homeTY}

	d1, d2 = math.Inf(1), math.Inf(1)
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			for _, q := range tilePoints(home.Add(dx, dy), size, p) {
				d := r2.Norm(r2.Sub(pt, q))
				switch {
				case d < d1:
					d1, d2 = d, d1
				case d < d2:
					d2 = d
				}
			}
		}
	}
	return d1, d2
}
