package noise

import "math"

// skew/unskew factors for the 2D simplex grid, F2 = 0.5*(sqrt(3)-1), G2 = (3-sqrt(3))/6.
const (
	f2 = 0.36602540378443864676
	g2 = 0.21132486540518711775
)

// grad8 is the 8-way gradient table simplex2 indexes by Hash2 of the lattice
// corner: the four axis directions (unit length) plus the four diagonals
// (length sqrt(2)), left unnormalized.
var grad8 = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

func gradDot(hash uint32, x, y float64) float64 {
	g := grad8[hash&7]
	return g[0]*x + g[1]*y
}

// Simplex2 computes classical 2D simplex noise in [-1,1], grounded on the
// standard skew/unskew/corner-contribution construction with lattice
// corners hashed by Hash2 (an int32 seed is folded into Hash2's uint32
// seed so callers can use negative noise seeds).
func Simplex2(x, y float32, seed int32) float32 {
	fx, fy := float64(x), float64(y)
	s := (fx + fy) * f2
	i := math.Floor(fx + s)
	j := math.Floor(fy + s)

	t := (i + j) * g2
	x0 := fx - (i - t)
	y0 := fy - (j - t)

	var i1, j1 float64
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - i1 + g2
	y1 := y0 - j1 + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii := int32(i)
	jj := int32(j)
	hseed := uint32(seed)

	h0 := Hash2(ii, jj, hseed)
	h1 := Hash2(ii+int32(i1), jj+int32(j1), hseed)
	h2 := Hash2(ii+1, jj+1, hseed)

	n0 := corner(x0, y0, h0)
	n1 := corner(x1, y1, h1)
	n2 := corner(x2, y2, h2)

	// 70 is the classical normalization constant bringing the sum into
	// approximately [-1,1] for this gradient/kernel combination.
	return float32(70.0 * (n0 + n1 + n2))
}

func corner(x, y float64, hash uint32) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	return t * t * gradDot(hash, x, y)
}

// FBM sums octaves of Simplex2 at geometrically scaled frequencies,
// normalizing by the total amplitude so the result stays within [-1,1].
func FBM(x, y float32, seed int32, freq float32, octaves uint8, lacunarity, persistence float32) float32 {
	if octaves == 0 {
		return 0
	}
	var sum, amp, totalAmp, f float32 = 0, 1, 0, freq
	for o := uint8(0); o < octaves; o++ {
		sum += amp * Simplex2(x*f, y*f, seed)
		totalAmp += amp
		f *= lacunarity
		amp *= persistence
	}
	if totalAmp == 0 {
		return 0
	}
	return sum / totalAmp
}
