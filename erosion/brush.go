package erosion

import "math"

// Offset is one weighted entry of a deposition/erosion brush: an offset
// from the droplet's current cell plus a normalized weight.
type Offset struct {
	DX, DY int32
	Weight float32
}

// DefaultBrush builds the default brush: the 3x3 Chebyshev neighborhood
// with w_i proportional to max(0, 1 - d_i/1.5), normalized so the weights
// sum to 1.
func DefaultBrush() []Offset {
	offs := make([]Offset, 0, 9)
	var total float64
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			w := 1 - d/1.5
			if w <= 0 {
				continue
			}
			offs = append(offs, Offset{DX: dx, DY: dy, Weight: float32(w)})
			total += w
		}
	}
	for i := range offs {
		offs[i].Weight = float32(float64(offs[i].Weight) / total)
	}
	return offs
}
