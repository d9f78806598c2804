package erosion

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/heightstream/tile"
)

// simulateDroplet runs one droplet's lifetime on ph in place. spawn is
// already in padded-local pixel coordinates.
func simulateDroplet(ph tile.Heightmap, spawn r2.Vec, p Params, brush []Offset) {
	pos := spawn
	dir := r2.Vec{}
	speed := p.StartSpeed
	water := p.StartWater
	var sediment float32

	bufSize := float64(ph.Size)
	margin := float64(p.BrushRadius)

	// Spawns from the dilated search region can lie outside the buffer; the
	// same brush-radius bound that ends a droplet's walk applies at spawn.
	if pos.X < margin || pos.X >= bufSize-margin || pos.Y < margin || pos.Y >= bufSize-margin {
		return
	}

	for step := 0; step < p.MaxLifetime; step++ {
		h, gx, gy := sample(ph, pos.X, pos.Y)

		grad := r2.Vec{X: float64(gx), Y: float64(gy)}
		dir = r2.Sub(r2.Scale(float64(p.Inertia), dir), r2.Scale(float64(1-p.Inertia), grad))
		dlen := r2.Norm(dir)
		if dlen < 0.01 {
			dlen = 0.01
		}
		dir = r2.Scale(1/dlen, dir)

		pos = r2.Add(pos, dir)

		if pos.X < margin || pos.X >= bufSize-margin || pos.Y < margin || pos.Y >= bufSize-margin {
			return
		}

		hNext, _, _ := sample(ph, pos.X, pos.Y)
		dh := hNext - h

		capacity := -dh * speed * water * p.SedimentCapacityFactor
		if capacity < p.MinSedimentCapacity {
			capacity = p.MinSedimentCapacity
		}

		if sediment > capacity || dh > 0 {
			var deposit float32
			if dh > 0 {
				deposit = dh
				if sediment < deposit {
					deposit = sediment
				}
			} else {
				deposit = (sediment - capacity) * p.DepositSpeed
			}
			depositAt(ph, pos.X, pos.Y, deposit)
			sediment -= deposit
		} else {
			erode := (capacity - sediment) * p.ErodeSpeed
			if cap := -dh; erode > cap {
				erode = cap
			}
			erodeAt(ph, pos.X, pos.Y, erode, brush)
			sediment += erode
		}

		speedSq := speed*speed + dh*p.Gravity
		if speedSq < 0 {
			speedSq = 0
		}
		speed = float32(math.Sqrt(float64(speedSq)))
		water *= 1 - p.EvaporateSpeed
	}
}

func depositAt(ph tile.Heightmap, x, y float64, amount float32) {
	ix, iy, w00, w10, w01, w11 := depositWeights(x, y)
	ph.Set(ix, iy, ph.At(ix, iy)+amount*w00)
	ph.Set(ix+1, iy, ph.At(ix+1, iy)+amount*w10)
	ph.Set(ix, iy+1, ph.At(ix, iy+1)+amount*w01)
	ph.Set(ix+1, iy+1, ph.At(ix+1, iy+1)+amount*w11)
}

func erodeAt(ph tile.Heightmap, x, y float64, amount float32, brush []Offset) {
	ix := int(math.Floor(x))
	iy := int(math.Floor(y))
	for _, o := range brush {
		cx, cy := ix+int(o.DX), iy+int(o.DY)
		if cx < 0 || cy < 0 || cx >= ph.Size || cy >= ph.Size {
			continue
		}
		ph.Set(cx, cy, ph.At(cx, cy)-amount*o.Weight)
	}
}
