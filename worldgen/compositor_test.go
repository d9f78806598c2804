package worldgen

import (
	"math"
	"testing"

	"github.com/pthm-cable/heightstream/tile"
)

// TestSeamlessVoronoiOnly checks that column S-1 of tile (0,0) equals
// column 0 of tile (1,0), bit-identically.
func TestSeamlessVoronoiOnly(t *testing.T) {
	p := Params{
		Seed: 12345, NPoints: 2, EnableVoronoi: true,
		Scaling: ScalingLinear, Falloff: 1, Amplitude: 1, RidgeMultiplier: 0,
		MinH: 0, MaxH: 1,
	}
	c := NewCompositor(4, p)

	a := c.RawHeightmap(tile.Coord{TX: 0, TY: 0})
	b := c.RawHeightmap(tile.Coord{TX: 1, TY: 0})

	for y := 0; y < 4; y++ {
		av := a.At(3, y)
		bv := b.At(0, y)
		if av != bv {
			t.Fatalf("row %d: edge mismatch %v != %v", y, av, bv)
		}
	}
}

// TestSeamlessVoronoiPlusNoise repeats the same edge-match assertion with
// the noise layer also enabled.
func TestSeamlessVoronoiPlusNoise(t *testing.T) {
	p := Params{
		Seed: 12345, NPoints: 2, EnableVoronoi: true,
		Scaling: ScalingLinear, Falloff: 1, Amplitude: 1, RidgeMultiplier: 0,
		MinH: 0, MaxH: 1,
		EnableNoise: true, NoiseIntensity: 1, VoronoiIntensity: 0,
		NoiseFreq: 0.25, NoiseOctaves: 2, NoiseLacunarity: 2, NoisePersistence: 0.5, NoiseSeed: 7,
	}
	c := NewCompositor(4, p)

	a := c.RawHeightmap(tile.Coord{TX: 0, TY: 0})
	b := c.RawHeightmap(tile.Coord{TX: 1, TY: 0})

	for y := 0; y < 4; y++ {
		av := a.At(3, y)
		bv := b.At(0, y)
		if av != bv {
			t.Fatalf("row %d: edge mismatch %v != %v", y, av, bv)
		}
	}
}

func TestSeamlessVerticalEdge(t *testing.T) {
	p := Params{
		Seed: 999, NPoints: 4, EnableVoronoi: true,
		Scaling: ScalingQuadratic, Falloff: 2, Amplitude: 1.2, RidgeMultiplier: 0.3,
		MinH: -1, MaxH: 1,
	}
	c := NewCompositor(8, p)

	a := c.RawHeightmap(tile.Coord{TX: 0, TY: 0})
	b := c.RawHeightmap(tile.Coord{TX: 0, TY: 1})

	for x := 0; x < 8; x++ {
		if a.At(x, 7) != b.At(x, 0) {
			t.Fatalf("col %d: edge mismatch %v != %v", x, a.At(x, 7), b.At(x, 0))
		}
	}
}

func TestHeightAtDeterministic(t *testing.T) {
	p := Params{
		Seed: 1, NPoints: 3, EnableVoronoi: true, EnableNoise: true,
		Scaling: ScalingSigmoid, Falloff: 3, Amplitude: 1, MinH: 0, MaxH: 1,
		NoiseIntensity: 0.5, VoronoiIntensity: 0.5,
		NoiseFreq: 0.1, NoiseOctaves: 3, NoiseLacunarity: 2, NoisePersistence: 0.5, NoiseSeed: 2,
	}
	c := NewCompositor(64, p)
	a := c.HeightAt(130.25, -44.5)
	b := c.HeightAt(130.25, -44.5)
	if a != b {
		t.Fatalf("HeightAt not deterministic: %v != %v", a, b)
	}
}

func TestPaddedHeightmapMatchesCenterCrop(t *testing.T) {
	p := Params{
		Seed: 42, NPoints: 3, EnableVoronoi: true,
		Scaling: ScalingLinear, Falloff: 1, Amplitude: 1, MinH: 0, MaxH: 1,
	}
	c := NewCompositor(16, p)
	tc := tile.Coord{TX: 2, TY: -1}

	padded := c.PaddedHeightmap(tc, 4)
	cropped := padded.Crop(16, 4)
	raw := c.RawHeightmap(tc)

	for i := range raw.Data {
		if math.Abs(float64(raw.Data[i]-cropped.Data[i])) > 1e-6 {
			t.Fatalf("padded crop mismatch at %d: %v != %v", i, raw.Data[i], cropped.Data[i])
		}
	}
}
