package erosion

import (
	"math"

	"github.com/pthm-cable/heightstream/tile"
)

// sample bilinearly interpolates height and gradient at a fractional local
// position within the heightmap.
func sample(h tile.Heightmap, x, y float64) (height, gx, gy float32) {
	ix := int(math.Floor(x))
	iy := int(math.Floor(y))
	u := float32(x - float64(ix))
	v := float32(y - float64(iy))

	h00 := h.At(ix, iy)
	h10 := h.At(ix+1, iy)
	h01 := h.At(ix, iy+1)
	h11 := h.At(ix+1, iy+1)

	height = lerp(lerp(h00, h10, u), lerp(h01, h11, u), v)
	gx = (h10-h00)*(1-v) + (h11-h01)*v
	gy = (h01-h00)*(1-u) + (h11-h10)*u
	return height, gx, gy
}

func lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// depositWeights returns the bilinear weights of the 4 cells surrounding a
// fractional local position, used to distribute deposited sediment.
func depositWeights(x, y float64) (ix, iy int, w00, w10, w01, w11 float32) {
	ix = int(math.Floor(x))
	iy = int(math.Floor(y))
	u := float32(x - float64(ix))
	v := float32(y - float64(iy))
	w00 = (1 - u) * (1 - v)
	w10 = u * (1 - v)
	w01 = (1 - u) * v
	w11 = u * v
	return
}
