package noise

import "testing"

func TestSimplex2Bounded(t *testing.T) {
	for ix := -20; ix <= 20; ix++ {
		for iy := -20; iy <= 20; iy++ {
			v := Simplex2(float32(ix)*0.13, float32(iy)*0.13, 7)
			if v < -1.01 || v > 1.01 {
				t.Fatalf("Simplex2(%d,%d) = %v out of [-1,1]", ix, iy, v)
			}
		}
	}
}

func TestSimplex2Deterministic(t *testing.T) {
	a := Simplex2(3.25, -1.5, 42)
	b := Simplex2(3.25, -1.5, 42)
	if a != b {
		t.Fatalf("Simplex2 not deterministic: %v != %v", a, b)
	}
}

func TestSimplex2SeedChangesField(t *testing.T) {
	a := Simplex2(3.25, -1.5, 42)
	b := Simplex2(3.25, -1.5, 43)
	if a == b {
		t.Fatal("Simplex2 produced identical values for different seeds")
	}
}

func TestFBMNormalizedRange(t *testing.T) {
	for o := uint8(1); o <= 6; o++ {
		v := FBM(12.3, -7.7, 9, 0.05, o, 2.0, 0.5)
		if v < -1.01 || v > 1.01 {
			t.Fatalf("FBM octaves=%d = %v out of [-1,1]", o, v)
		}
	}
}

func TestFBMZeroOctavesIsZero(t *testing.T) {
	if v := FBM(1, 2, 3, 0.1, 0, 2, 0.5); v != 0 {
		t.Fatalf("FBM with 0 octaves = %v, want 0", v)
	}
}
