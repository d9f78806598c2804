package erosion

import "math"

// IntensityMap is a small square 2D intensity kernel an alternate texture
// droplet kernel samples instead of the fixed brush. Values are expected to
// sum to roughly 1 across the map so mass is conserved the same way the
// brush conserves it.
type IntensityMap struct {
	Size int // always odd; center cell is the droplet's own cell
	Data []float32
}

// NewGaussianIntensityMap builds a normalized Gaussian footprint of the
// given odd size and standard deviation, a common texture-kernel choice for
// this alternate path.
func NewGaussianIntensityMap(size int, sigma float64) *IntensityMap {
	if size%2 == 0 {
		size++
	}
	m := &IntensityMap{Size: size, Data: make([]float32, size*size)}
	r := size / 2
	var total float64
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			d2 := float64(x*x + y*y)
			w := math.Exp(-d2 / (2 * sigma * sigma))
			m.Data[(y+r)*size+(x+r)] = float32(w)
			total += w
		}
	}
	if total > 0 {
		for i := range m.Data {
			m.Data[i] = float32(float64(m.Data[i]) / total)
		}
	}
	return m
}

// Offsets returns the map's cells as brush-style weighted offsets so the
// texture kernel can reuse the same erode loop as the brush kernel.
func (m *IntensityMap) Offsets() []Offset {
	r := m.Size / 2
	offs := make([]Offset, 0, len(m.Data))
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			w := m.Data[y*m.Size+x]
			if w == 0 {
				continue
			}
			offs = append(offs, Offset{DX: int32(x - r), DY: int32(y - r), Weight: w})
		}
	}
	return offs
}
