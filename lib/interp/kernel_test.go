package interp

import (
	"math"
	"testing"
)

func TestKernelPeaks(t *testing.T) {
	peaks := []float64{1.0, 1.0, 0.75, 2.0 / 3.0, 115.0 / 192.0}
	for order := MinOrder; order <= MaxOrder; order++ {
		if got := Kernel(order)(0); math.Abs(got-peaks[order-1]) > 1e-15 {
			t.Errorf("kernel_%d(0) = %g, expected %g.", order, got, peaks[order-1])
		}
	}
}

func TestKernelSupport(t *testing.T) {
	for order := MinOrder; order <= MaxOrder; order++ {
		kern := Kernel(order)
		edge := float64(order) / 2.0
		if got := kern(edge + 1e-9); got != 0 {
			t.Errorf("kernel_%d(%g) = %g outside the support radius.", order, edge+1e-9, got)
		}
		if got := kern(edge - 1e-3); got <= 0 {
			t.Errorf("kernel_%d(%g) = %g just inside the support radius.", order, edge-1e-3, got)
		}
	}
}

// Integer-offset samples of a B-spline sum to one; this is what makes a
// fixed-stencil convolution with the kernel mass-preserving.
func TestKernelIntegerPartition(t *testing.T) {
	for order := MinOrder; order <= MaxOrder; order++ {
		kern := Kernel(order)
		sum := 0.0
		for step := -order; step <= order; step++ {
			sum += kern(math.Abs(float64(step)))
		}
		if math.Abs(sum-1.0) > 1e-12 {
			t.Errorf("integer samples of kernel_%d sum to %g.", order, sum)
		}
	}
}

// Stencil weights must sum to one for any fractional position under the
// built-in layout, otherwise deposited mass depends on where a particle sits
// inside its cell.
func TestStencilPartitionOfUnity(t *testing.T) {
	fracs := []float64{0, 0.1, 0.25, 0.49, 0.5, 0.51, 0.75, 0.9, 0.999}
	for order := MinOrder; order <= MaxOrder; order++ {
		kern := Kernel(order)
		for _, frac := range fracs {
			xstart := make([]int, 1)
			stencilOrigin(order, []float64{frac}, xstart)

			sum := 0.0
			for s := 0; s < order; s++ {
				step := 0
				if order > 1 {
					step = xstart[0] + s
				}
				sum += kern(math.Abs(-frac + float64(step) + 0.5))
			}
			if math.Abs(sum-1.0) > 1e-3 {
				t.Errorf("order %d, frac %g: stencil weights sum to %g.", order, frac, sum)
			}
		}
	}
}

func TestOrderFromMethod(t *testing.T) {
	tests := []struct {
		method string
		order  int
	}{
		{"NGP", 1}, {"CIC", 2}, {"TSC", 3}, {"PCS", 4}, {"PQS", 5},
	}
	for i := range tests {
		if got := OrderFromMethod(tests[i].method); got != tests[i].order {
			t.Errorf("%d) OrderFromMethod(%s) = %d, expected %d.", i, tests[i].method, got, tests[i].order)
		}
	}
}

func TestExtraSlicesTable(t *testing.T) {
	tests := []struct {
		order       int
		shifted     bool
		left, right int
	}{
		{1, false, 0, 0},
		{2, false, 0, 1},
		{3, false, 1, 2},
		{4, false, 1, 2},
		{5, false, 2, 3},
		{1, true, 0, 0},
		{2, true, 1, 1},
		{3, true, 1, 1},
		{4, true, 2, 2},
		{5, true, 2, 2},
	}
	for i := range tests {
		left, right := ExtraSlicesForLayout(tests[i].order, tests[i].shifted)
		if left != tests[i].left || right != tests[i].right {
			t.Errorf("%d) order %d, shifted %v: got (%d, %d), expected (%d, %d).",
				i, tests[i].order, tests[i].shifted, left, right, tests[i].left, tests[i].right)
		}
	}

	left, right := ExtraSlicesForMethod("PQS")
	wantL, wantR := ExtraSlicesForLayout(5, CellCenterShifted)
	if left != wantL || right != wantR {
		t.Errorf("ExtraSlicesForMethod(PQS) = (%d, %d), expected (%d, %d).", left, right, wantL, wantR)
	}
}
