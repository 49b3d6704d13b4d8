package fft

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/LBJ-Wade/FML/lib"
)

// newSlab allocates a padded slab and returns it with its real view.
func newSlab(ndim, nmesh int) ([]complex128, []float64) {
	slab := make([]complex128, (nmesh/2+1)*lib.IntPow(nmesh, ndim-1))
	return slab, lib.Complex128sAsFloat64s(slab)
}

func fillRandom(reals []float64, ndim, nmesh int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	pad := 2 * (nmesh/2 + 1)
	nlines := lib.IntPow(nmesh, ndim-1)
	for l := 0; l < nlines; l++ {
		for j := 0; j < nmesh; j++ {
			reals[l*pad+j] = rng.Float64() - 0.5
		}
	}
}

// An unnormalized forward-backward round trip scales every value by
// Nmesh^ndim.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		ndim, nmesh int
	}{
		{1, 8}, {1, 9}, {2, 8}, {2, 6}, {3, 8}, {3, 5},
	}

	for i := range tests {
		ndim, nmesh := tests[i].ndim, tests[i].nmesh
		slab, reals := newSlab(ndim, nmesh)
		fillRandom(reals, ndim, nmesh, int64(i))

		orig := append([]float64(nil), reals...)
		s := NewSerial(nmesh)
		s.Forward(slab, ndim, nmesh, nmesh)
		s.Backward(slab, ndim, nmesh, nmesh)

		scale := math.Pow(float64(nmesh), float64(ndim))
		pad := 2 * (nmesh/2 + 1)
		nlines := lib.IntPow(nmesh, ndim-1)
		for l := 0; l < nlines; l++ {
			for j := 0; j < nmesh; j++ {
				got, want := reals[l*pad+j], orig[l*pad+j]*scale
				if math.Abs(got-want) > 1e-9*scale {
					t.Errorf("%d) ndim = %d, Nmesh = %d: round trip gave %g at line %d cell %d, expected %g.",
						i, ndim, nmesh, got, l, j, want)
				}
			}
		}
	}
}

// A constant field transforms to a spectrum with all its power in the zero
// mode.
func TestConstantField(t *testing.T) {
	ndim, nmesh := 3, 8
	c := 2.5

	slab, reals := newSlab(ndim, nmesh)
	pad := 2 * (nmesh/2 + 1)
	nlines := lib.IntPow(nmesh, ndim-1)
	for l := 0; l < nlines; l++ {
		for j := 0; j < nmesh; j++ {
			reals[l*pad+j] = c
		}
	}

	NewSerial(nmesh).Forward(slab, ndim, nmesh, nmesh)

	want := complex(c*math.Pow(float64(nmesh), float64(ndim)), 0)
	if cmplx.Abs(slab[0]-want) > 1e-9*real(want) {
		t.Errorf("zero mode is %v, expected %v.", slab[0], want)
	}
	for i := 1; i < len(slab); i++ {
		if cmplx.Abs(slab[i]) > 1e-6*real(want) {
			t.Errorf("mode %d is %v, expected 0.", i, slab[i])
			break
		}
	}
}
