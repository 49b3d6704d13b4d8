package interp

import (
	"math"

	"github.com/LBJ-Wade/FML/lib"
	"github.com/LBJ-Wade/FML/lib/error"
	"github.com/LBJ-Wade/FML/lib/grid"
)

// ConvolveWithKernel convolves the real-space grid with an arbitrary kernel
// of order-p support: kernel receives the displacement dx (in cells) from
// the target cell to each stencil cell and returns the weight. The input
// grid needs ghost slices for order p and already-exchanged boundaries; a
// new grid with the same layout holds the result.
func ConvolveWithKernel(in *grid.Grid, order int, kernel func(dx []float64) float64) *grid.Grid {
	left, right := ExtraSlices(order)
	if in.ExtraLeft() < left || in.ExtraRight() < right {
		error.External("too few extra slices for an order-%d convolution: need (%d, %d), the grid has (%d, %d).",
			order, left, right, in.ExtraLeft(), in.ExtraRight())
	}
	if !in.IsRealSpace() {
		error.External("convolution requires a real-space grid.")
	}

	ndim := in.Ndim()
	nmesh := in.Nmesh()
	stencil := lib.IntPow(order, ndim)

	// A fixed origin: cell centers line up, so there is no fractional
	// offset and the stencil never shifts with position.
	xstart := -order / 2
	if order%2 == 0 {
		xstart++
	}

	out := in.Copy()
	out.FillReal(0.0)
	out.SetRealSpace(true)

	icoord := make([]int, ndim)
	dx := make([]float64, ndim)

	out.ForEachRealIndex(func(idx int) {
		coord := out.CoordFromRealIndex(idx)
		value := 0.0
		for s := 0; s < stencil; s++ {
			n := 1
			for d := 0; d < ndim; d++ {
				step := xstart + (s/n)%order
				icoord[d] = coord[d] + step
				dx[d] = float64(step)
				n *= order
			}
			for d := 1; d < ndim; d++ {
				if icoord[d] >= nmesh {
					icoord[d] -= nmesh
				}
				if icoord[d] < 0 {
					icoord[d] += nmesh
				}
			}
			value += in.Real(icoord) * kernel(dx)
		}
		out.SetRealFromIndex(idx, value)
	})

	out.CommunicateBoundaries()
	return out
}

// SmoothWithBSpline convolves the grid with the order-p assignment kernel
// itself, the same smoothing a deposit of one particle per cell center
// would apply.
func SmoothWithBSpline(in *grid.Grid, order int) *grid.Grid {
	kern := Kernel(order)
	return ConvolveWithKernel(in, order, func(dx []float64) float64 {
		w := 1.0
		for d := range dx {
			w *= kern(math.Abs(dx[d]))
		}
		return w
	})
}

// DeconvolveWindow divides the Fourier-space grid by the window function of
// the order-p assignment kernel, W(k) = prod_d sinc(pi k_d / (2 k_ny))^p,
// undoing the smoothing the kernel imprinted during deposition. Modes at
// the Nyquist frequency are suppressed least aggressively since sinc never
// reaches zero on the resolved band.
func DeconvolveWindow(g *grid.Grid, method string) {
	DeconvolveWindowOrder(g, OrderFromMethod(method))
}

// DeconvolveWindowOrder is DeconvolveWindow keyed by assignment order.
func DeconvolveWindowOrder(g *grid.Grid, order int) {
	checkOrder(order)
	if g.IsRealSpace() {
		error.External("window deconvolution requires a Fourier-space grid.")
	}

	kny := math.Pi * float64(g.Nmesh())
	g.ForEachFourierIndex(func(idx int) {
		kvec := g.WavevectorFromIndex(idx)
		w := 1.0
		for d := range kvec {
			w *= math.Pow(sinc(math.Pi/2.0*kvec[d]/kny), float64(order))
		}
		g.SetFourierFromIndex(idx, g.FourierFromIndex(idx)/complex(w, 0))
	})
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1.0
	}
	return math.Sin(x) / x
}
