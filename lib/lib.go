/*package lib contains small utility functions shared by the FML grid and
interpolation packages. These are mainly byte-order detection and zero-copy
reinterpretation of numeric slices, which the grid uses for slice exchange
and binary snapshots.
*/
package lib

import (
	"encoding/binary"
	"runtime"

	"unsafe"

	"github.com/LBJ-Wade/FML/lib/error"
)

// IntPow returns base^exp for integer arguments. Exponents <= 0 return 1,
// which is what the grid size arithmetic relies on in one dimension.
func IntPow(base, exp int) int {
	n := 1
	for i := 0; i < exp; i++ {
		n *= base
	}
	return n
}

// Float64sAsBytes reinterprets x as raw bytes without copying. The returned
// slice aliases x, so writes through one are visible through the other.
func Float64sAsBytes(x []float64) []byte {
	if len(x) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&x[0])), len(x)*8)
}

// Complex128sAsBytes reinterprets x as raw bytes without copying.
func Complex128sAsBytes(x []complex128) []byte {
	if len(x) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&x[0])), len(x)*16)
}

// Complex128sAsFloat64s returns the float64 view aliasing the same memory as
// x. This is how the grid keeps its real-space and Fourier-space views backed
// by a single allocation.
func Complex128sAsFloat64s(x []complex128) []float64 {
	if len(x) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&x[0])), len(x)*2)
}

func SystemByteOrder() binary.ByteOrder {
	// See https://stackoverflow.com/questions/51332658/any-better-way-to-check-endianness-in-go/51332762
	b := [2]byte{}
	*(*uint16)(unsafe.Pointer(&b[0])) = uint16(0x0001)
	if b[0] == 0 {
		return binary.BigEndian
	} else {
		return binary.LittleEndian
	}
}

// SetThreads sets the number of OS threads the process may run on.
func SetThreads(n int) {
	if n > runtime.NumCPU() {
		error.External("%d threads requested, but your system only has %d cores per node. If you want to use the maximum number of threads per node, set threads to -1.", n, runtime.NumCPU())
	}
	if n < 1 {
		n = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(n)
}
