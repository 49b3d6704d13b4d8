package interp

import (
	"github.com/LBJ-Wade/FML/lib/error"
)

/* kernel.go defines the B-spline assignment kernel family and the metadata
that goes with each order: the method-name table and the number of ghost
slices a slab grid needs before particles near its boundary can be assigned
locally.

The order-p kernel is the p-fold convolution of a unit top-hat: an even,
piecewise-polynomial function supported on |x| < p/2. Order 1 through 5 are
the standard NGP, CIC, TSC, PCS and PQS assignment schemes. All kernels are
evaluated on |x| only; callers pass absolute distances. */

// CellCenterShifted shifts mesh nodes to cell centers. It must match
// grid.CellCenterShifted; both are layout policy fixed at build time. Using
// the shift saves a ghost slice for even orders, costs one for odd orders,
// and keeps nearest-node assignment exact for order 1.
const CellCenterShifted = true

func kernelNGP(x float64) float64 {
	if x <= 0.5 {
		return 1.0
	}
	return 0.0
}

func kernelCIC(x float64) float64 {
	if x < 1.0 {
		return 1.0 - x
	}
	return 0.0
}

func kernelTSC(x float64) float64 {
	switch {
	case x < 0.5:
		return 0.75 - x*x
	case x < 1.5:
		return 0.5 * (1.5 - x) * (1.5 - x)
	}
	return 0.0
}

func kernelPCS(x float64) float64 {
	switch {
	case x < 1.0:
		return 2.0/3.0 + x*x*(-1.0+0.5*x)
	case x < 2.0:
		return (2 - x) * (2 - x) * (2 - x) / 6.0
	}
	return 0.0
}

func kernelPQS(x float64) float64 {
	switch {
	case x < 0.5:
		return 115.0/192.0 + 0.25*x*x*(x*x-2.5)
	case x < 1.5:
		return (55 + 4*x*(5-2*x*(15+2*(x-5)*x))) / 96.0
	case x < 2.5:
		return (5 - 2*x) * (5 - 2*x) * (5 - 2*x) * (5 - 2*x) / 384.0
	}
	return 0.0
}

var kernels = [...]func(float64) float64{
	kernelNGP, kernelCIC, kernelTSC, kernelPCS, kernelPQS,
}

// MinOrder and MaxOrder bound the implemented kernel family.
const (
	MinOrder = 1
	MaxOrder = 5
)

// Kernel returns the order-p assignment kernel. Orders outside 1..5 are a
// fatal configuration error.
func Kernel(order int) func(float64) float64 {
	checkOrder(order)
	return kernels[order-1]
}

func checkOrder(order int) {
	if order < MinOrder || order > MaxOrder {
		error.External("interpolation order %d is not implemented: only orders %d..%d (NGP..PQS) exist.", order, MinOrder, MaxOrder)
	}
}

// OrderFromMethod maps a density assignment method name to its kernel
// order. Names are matched exactly and case-sensitively; an unrecognized
// name is a fatal configuration error rather than a silent no-op.
func OrderFromMethod(method string) int {
	switch method {
	case "NGP":
		return 1
	case "CIC":
		return 2
	case "TSC":
		return 3
	case "PCS":
		return 4
	case "PQS":
		return 5
	}
	error.External("unknown density assignment method '%s': must be one of NGP, CIC, TSC, PCS, PQS.", method)
	return 0
}

// ExtraSlicesForLayout returns the minimum ghost slices (left, right) a grid
// needs for order-p assignment under the given node layout. It is a pure
// function so callers can size ghost allocation before constructing a grid.
func ExtraSlicesForLayout(order int, centerShifted bool) (left, right int) {
	checkOrder(order)
	if order == 1 {
		return 0, 0
	}
	if centerShifted {
		return order / 2, order / 2
	}
	if order%2 == 1 {
		return order / 2, order/2 + 1
	}
	return order/2 - 1, order / 2
}

// ExtraSlices returns the ghost slice requirement for order-p assignment
// under the built-in layout policy.
func ExtraSlices(order int) (left, right int) {
	return ExtraSlicesForLayout(order, CellCenterShifted)
}

// ExtraSlicesForMethod is ExtraSlices keyed by method name.
func ExtraSlicesForMethod(method string) (left, right int) {
	return ExtraSlices(OrderFromMethod(method))
}
