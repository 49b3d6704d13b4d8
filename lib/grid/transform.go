package grid

import (
	"math"

	"github.com/LBJ-Wade/FML/lib/error"
)

/* transform.go invokes the transform backend over the owned slab. The
backend may clobber the first cells of the right ghost region (they sit
directly after the slab in memory), so those are snapshotted and restored
around the call. */

// FFTToFourier transforms the owned slab to Fourier space in place and
// applies the 1/Nmesh^ndim normalization, so a constant field of value c has
// its zero mode equal to c.
func (g *Grid) FFTToFourier() {
	if DebugState && !g.realSpace {
		error.Warn("FFTToFourier on a grid already in Fourier space.")
	}

	saved := g.saveRightBoundary()
	g.transformer().Forward(g.ownedSlab(), g.ndim, g.nmesh, g.localNx)
	g.realSpace = false

	norm := complex(1.0/math.Pow(float64(g.nmesh), float64(g.ndim)), 0)
	slab := g.ownedSlab()
	g.ForEachFourierIndex(func(index int) {
		slab[index] *= norm
	})

	g.restoreRightBoundary(saved)
}

// FFTToReal transforms the owned slab back to real space in place. No
// normalization is applied; together with FFTToFourier this makes the round
// trip exact.
func (g *Grid) FFTToReal() {
	if DebugState && g.realSpace {
		error.Warn("FFTToReal on a grid already in real space.")
	}

	saved := g.saveRightBoundary()
	g.transformer().Backward(g.ownedSlab(), g.ndim, g.nmesh, g.localNx)
	g.realSpace = true
	g.restoreRightBoundary(saved)
}

func (g *Grid) transformer() Transformer {
	if g.fft == nil {
		error.External("this grid was constructed without a transform backend.")
	}
	return g.fft
}

func (g *Grid) saveRightBoundary() []float64 {
	if g.nRight == 0 {
		return nil
	}
	halfC := g.nmesh/2 + 1
	return append([]float64(nil), g.RealSlice(g.localNx)[:halfC]...)
}

func (g *Grid) restoreRightBoundary(saved []float64) {
	if saved == nil {
		return
	}
	copy(g.RealSlice(g.localNx)[:len(saved)], saved)
}
