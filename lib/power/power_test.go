package power

import (
	"math"
	"testing"

	"github.com/LBJ-Wade/FML/lib/fft"
	"github.com/LBJ-Wade/FML/lib/grid"
	"github.com/LBJ-Wade/FML/lib/mpi"
)

// A single off-boundary mode carries hermitian weight two, and all its power
// lands in the bin holding its wavenumber.
func TestSingleModeSpectrum(t *testing.T) {
	nmesh, nbins := 8, 4
	g := grid.New(3, nmesh, 0, 0, mpi.Self{}, nil)
	g.SetRealSpace(false)
	g.SetFourier([]int{0, 0, 2}, 1)

	spec := Compute(g, nbins)

	kmag := 2 * math.Pi * 2
	kmin, kmax := 2*math.Pi, math.Pi*float64(nmesh)
	wantBin := int((kmag - kmin) / ((kmax - kmin) / float64(nbins)))

	totalPower := 0.0
	for b := range spec.P {
		totalPower += spec.P[b] * spec.Modes[b]
		if b != wantBin && spec.P[b] != 0 {
			t.Errorf("bin %d has power %g, expected 0.", b, spec.P[b])
		}
	}
	if math.Abs(totalPower-2.0) > 1e-12 {
		t.Errorf("total weighted power is %g, expected 2 from the mode and its conjugate.", totalPower)
	}
	if spec.P[wantBin] <= 0 {
		t.Errorf("bin %d holds no power.", wantBin)
	}
	if spec.K[wantBin] < kmin || spec.K[wantBin] > kmax {
		t.Errorf("bin %d reports a mean wavenumber of %g outside [%g, %g].", wantBin, spec.K[wantBin], kmin, kmax)
	}
}

// A constant real field has no power off the zero mode, which the spectrum
// excludes.
func TestConstantFieldSpectrum(t *testing.T) {
	nmesh := 8
	g := grid.New(3, nmesh, 0, 0, mpi.Self{}, fft.NewSerial(nmesh))
	g.FillReal(4.0)
	g.FFTToFourier()

	spec := Compute(g, 4)
	for b := range spec.P {
		if spec.P[b] > 1e-12 {
			t.Errorf("bin %d has power %g for a constant field.", b, spec.P[b])
		}
	}
}

// Every rank of a decomposed grid receives the same spectrum as a serial
// computation over the full mesh.
func TestDistributedSpectrum(t *testing.T) {
	size, nmesh, nbins := 4, 8, 4
	fill := func(g *grid.Grid) {
		g.SetRealSpace(false)
		g.FillFourierFunc(func(kvec []float64) complex128 {
			k2 := 0.0
			for d := range kvec {
				k2 += kvec[d] * kvec[d]
			}
			return complex(1.0/(1.0+k2), 0)
		})
	}

	serial := grid.New(3, nmesh, 0, 0, mpi.Self{}, nil)
	fill(serial)
	want := Compute(serial, nbins)

	comms := mpi.NewLocalGroup(size)
	done := make(chan *Spectrum, size)
	for r := 0; r < size; r++ {
		go func(comm mpi.Comm) {
			g := grid.New(3, nmesh, 0, 0, comm, nil)
			fill(g)
			done <- Compute(g, nbins)
		}(comms[r])
	}

	for r := 0; r < size; r++ {
		spec := <-done
		for b := 0; b < nbins; b++ {
			if math.Abs(spec.P[b]-want.P[b]) > 1e-10 || spec.Modes[b] != want.Modes[b] {
				t.Errorf("bin %d: distributed spectrum (%g, %g modes) does not match serial (%g, %g modes).",
					b, spec.P[b], spec.Modes[b], want.P[b], want.Modes[b])
			}
		}
	}
}
