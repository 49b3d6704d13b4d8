/*package eq is a simple package for telling whether two arrays are equal to
one another, exactly or within a tolerance.*/
package eq

import (
	"math"
)

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64s returns true if two []float64 arrays are exactly the same and
// false otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64sEps returns true if two []float64 arrays are the same to within an
// absolute tolerance eps and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if math.Abs(x[i]-y[i]) > eps {
			return false
		}
	}
	return true
}

// Complex128sEps returns true if two []complex128 arrays are the same to
// within an absolute tolerance eps on both components and false otherwise.
func Complex128sEps(x, y []complex128, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if math.Abs(real(x[i])-real(y[i])) > eps {
			return false
		}
		if math.Abs(imag(x[i])-imag(y[i])) > eps {
			return false
		}
	}
	return true
}
