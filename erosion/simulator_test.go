package erosion

import (
	"math"
	"testing"

	"github.com/pthm-cable/heightstream/tile"
	"github.com/pthm-cable/heightstream/worldgen"
)

func defaultErosionParams(seed uint32) Params {
	return Params{
		Seed:                   seed,
		Enabled:                true,
		Intensity:              1,
		DropletsPerTile:        8,
		MaxLifetime:            8,
		SedimentCapacityFactor: 4,
		MinSedimentCapacity:    0.01,
		DepositSpeed:           0.3,
		ErodeSpeed:             0.3,
		EvaporateSpeed:         0.02,
		Gravity:                4,
		StartSpeed:             1,
		StartWater:             1,
		Inertia:                0.05,
		BrushRadius:            2,
	}
}

func voronoiParams(seed uint32) worldgen.Params {
	return worldgen.Params{
		Seed: seed, NPoints: 3, EnableVoronoi: true,
		Scaling: worldgen.ScalingLinear, Falloff: 1, Amplitude: 1, MinH: 0, MaxH: 1,
	}
}

// TestSeamlessErosion checks that neighboring eroded tiles agree along
// their shared edge within 1e-3.
func TestSeamlessErosion(t *testing.T) {
	const size, padding = 64, 16
	comp := worldgen.NewCompositor(size, voronoiParams(42))
	sim := NewSimulator(comp, size, padding, defaultErosionParams(42))

	a := sim.Eroded(tile.Coord{TX: 0, TY: 0})
	b := sim.Eroded(tile.Coord{TX: 1, TY: 0})

	var maxDiff float64
	for y := 0; y < size; y++ {
		d := math.Abs(float64(a.At(size-1, y) - b.At(0, y)))
		if d > maxDiff {
			maxDiff = d
		}
	}
	if maxDiff > 1e-3 {
		t.Fatalf("edge max abs diff %v exceeds 1e-3", maxDiff)
	}
}

// TestDeterministic checks that generating the same tile twice produces
// bit-identical output.
func TestDeterministic(t *testing.T) {
	const size, padding = 32, 8
	comp := worldgen.NewCompositor(size, voronoiParams(7))
	sim := NewSimulator(comp, size, padding, defaultErosionParams(7))

	a := sim.Eroded(tile.Coord{TX: 3, TY: -2})
	b := sim.Eroded(tile.Coord{TX: 3, TY: -2})

	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("pixel %d differs between runs: %v != %v", i, a.Data[i], b.Data[i])
		}
	}
}

// TestZeroDropletsIsNoOp checks that a zero droplet count leaves the raw
// heightmap untouched.
func TestZeroDropletsIsNoOp(t *testing.T) {
	const size, padding = 16, 4
	comp := worldgen.NewCompositor(size, voronoiParams(1))
	params := defaultErosionParams(1)
	params.DropletsPerTile = 0
	sim := NewSimulator(comp, size, padding, params)

	tc := tile.Coord{TX: 0, TY: 0}
	eroded := sim.Eroded(tc)
	raw := comp.RawHeightmap(tc)

	for i := range raw.Data {
		if eroded.Data[i] != raw.Data[i] {
			t.Fatalf("pixel %d: expected no-op crop(PH) == RH, got %v != %v", i, eroded.Data[i], raw.Data[i])
		}
	}
}

func TestVMaxFormula(t *testing.T) {
	p := Params{MaxLifetime: 10, Gravity: 2}
	got := p.VMax()
	want := 10 * math.Sqrt(2*2*1.0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("VMax() = %v, want %v", got, want)
	}
}

func TestDefaultBrushNormalized(t *testing.T) {
	b := DefaultBrush()
	var total float32
	for _, o := range b {
		total += o.Weight
	}
	if math.Abs(float64(total)-1) > 1e-5 {
		t.Fatalf("brush weights sum to %v, want 1", total)
	}
	if len(b) != 9 {
		t.Fatalf("expected 9 brush entries (3x3 Chebyshev), got %d", len(b))
	}
}
