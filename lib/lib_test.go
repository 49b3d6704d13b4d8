package lib

import (
	"testing"
)

func TestIntPow(t *testing.T) {
	tests := []struct {
		base, exp, want int
	}{
		{2, 0, 1}, {2, -1, 1}, {2, 3, 8}, {8, 2, 64}, {5, 3, 125}, {1, 10, 1},
	}
	for i := range tests {
		if got := IntPow(tests[i].base, tests[i].exp); got != tests[i].want {
			t.Errorf("%d) IntPow(%d, %d) = %d, expected %d.",
				i, tests[i].base, tests[i].exp, got, tests[i].want)
		}
	}
}

// The reinterpreted views must alias the backing array, not copy it.
func TestComplex128Views(t *testing.T) {
	x := []complex128{1 + 2i, 3 + 4i}

	f := Complex128sAsFloat64s(x)
	if len(f) != 4 || f[0] != 1 || f[1] != 2 || f[2] != 3 || f[3] != 4 {
		t.Errorf("float view of %v is %v.", x, f)
	}

	f[2] = -3
	if x[1] != -3+4i {
		t.Errorf("writing through the float view did not reach the complex slice: %v.", x)
	}

	b := Complex128sAsBytes(x)
	if len(b) != 32 {
		t.Errorf("byte view has %d bytes, expected 32.", len(b))
	}
}

func TestFloat64sAsBytes(t *testing.T) {
	x := []float64{1, 2, 3}
	b := Float64sAsBytes(x)
	if len(b) != 24 {
		t.Errorf("byte view has %d bytes, expected 24.", len(b))
	}
	if Float64sAsBytes(nil) != nil {
		t.Errorf("the byte view of an empty slice isn't nil.")
	}
}
