// Package power bins a Fourier-space grid into an isotropically averaged
// power spectrum. Wavenumbers are in mesh units (the fundamental mode is
// 2*pi); divide by the box size for physical units.
package power

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/LBJ-Wade/FML/lib/error"
	"github.com/LBJ-Wade/FML/lib/grid"
)

// Spectrum is a binned power spectrum. K holds the mode-weighted mean
// wavenumber per bin, P the mean of |delta(k)|^2, and Modes the number of
// independent modes that landed in the bin. Bins that received no modes
// keep K at the bin center and P at zero.
type Spectrum struct {
	K     []float64
	P     []float64
	Modes []float64
}

// Compute bins the squared amplitudes of g's Fourier modes into nbins
// linear bins between the fundamental frequency and the Nyquist frequency.
// All ranks in g's group must call this collectively; every rank receives
// the full spectrum.
func Compute(g *grid.Grid, nbins int) *Spectrum {
	if g.IsRealSpace() {
		error.External("power spectrum estimation requires a Fourier-space grid.")
	}
	if nbins < 1 {
		error.External("power spectrum estimation requires at least one bin, not %d.", nbins)
	}

	nmesh := g.Nmesh()
	kmin := 2 * math.Pi
	kmax := math.Pi * float64(nmesh)
	edges := floats.Span(make([]float64, nbins+1), kmin, kmax)
	db := (kmax - kmin) / float64(nbins)

	sumK := make([]float64, nbins)
	sumP := make([]float64, nbins)
	modes := make([]float64, nbins)

	g.ForEachFourierIndex(func(idx int) {
		kvec, kmag2 := g.WavevectorNorm2FromIndex(idx)
		kmag := math.Sqrt(kmag2)
		if kmag < kmin || kmag > kmax {
			return
		}
		bin := int((kmag - kmin) / db)
		if bin == nbins {
			bin--
		}

		// The half-complex layout stores one of each conjugate pair. Modes
		// off the last-axis boundary planes represent themselves and their
		// conjugate, so they count twice.
		weight := 1.0
		last := kvec[len(kvec)-1]
		if last > 0 && last < kmax {
			weight = 2.0
		}

		f := g.FourierFromIndex(idx)
		p := real(f)*real(f) + imag(f)*imag(f)
		sumK[bin] += weight * kmag
		sumP[bin] += weight * p
		modes[bin] += weight
	})

	comm := g.Comm()
	spec := &Spectrum{
		K:     make([]float64, nbins),
		P:     make([]float64, nbins),
		Modes: make([]float64, nbins),
	}
	for b := 0; b < nbins; b++ {
		spec.Modes[b] = comm.SumFloat64(modes[b])
		k := comm.SumFloat64(sumK[b])
		p := comm.SumFloat64(sumP[b])
		if spec.Modes[b] > 0 {
			spec.K[b] = k / spec.Modes[b]
			spec.P[b] = p / spec.Modes[b]
		} else {
			spec.K[b] = 0.5 * (edges[b] + edges[b+1])
		}
	}
	return spec
}
