/*package fft implements the transform backend contract of the grid package
for a single-rank slab: an in-place N-dimensional real-to-half-complex
transform and its inverse over the grid's padded storage layout.

The transform is separable: a real FFT along the last axis, whose Nmesh/2+1
coefficients land exactly in the padding the layout reserves for them, then a
complex FFT along each remaining axis. Both directions are unnormalized, the
same convention FFTW uses, so a forward-backward round trip scales the data
by Nmesh^ndim and any normalization is the caller's business.
*/
package fft

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/LBJ-Wade/FML/lib"
	"github.com/LBJ-Wade/FML/lib/error"
)

// Serial transforms the full mesh of an undecomposed grid in place. It is
// not safe for concurrent use: the scratch line buffers are reused across
// calls.
type Serial struct {
	nmesh   int
	real    *fourier.FFT
	cmplx   *fourier.CmplxFFT
	realBuf []float64
	lineBuf []complex128
}

// NewSerial creates a transform backend for grids with nmesh cells per axis.
func NewSerial(nmesh int) *Serial {
	if nmesh < 1 {
		error.External("NewSerial called with Nmesh = %d.", nmesh)
	}
	return &Serial{
		nmesh:   nmesh,
		real:    fourier.NewFFT(nmesh),
		cmplx:   fourier.NewCmplxFFT(nmesh),
		realBuf: make([]float64, nmesh),
		lineBuf: make([]complex128, nmesh),
	}
}

// Forward transforms the slab's real data into half-complex Fourier
// coefficients in place.
func (s *Serial) Forward(slab []complex128, ndim, nmesh, localNx int) {
	s.check(slab, ndim, nmesh, localNx)

	halfC := nmesh/2 + 1
	pad := 2 * halfC
	reals := lib.Complex128sAsFloat64s(slab)

	// Real FFT along the last axis. Real line l and complex line l occupy
	// the same pad-sized byte range, so each line transforms in place.
	nlines := lib.IntPow(nmesh, ndim-1)
	for l := 0; l < nlines; l++ {
		copy(s.realBuf, reals[l*pad:l*pad+nmesh])
		s.real.Coefficients(s.lineBuf[:halfC], s.realBuf)
		copy(slab[l*halfC:(l+1)*halfC], s.lineBuf[:halfC])
	}

	dims := complexDims(ndim, nmesh)
	for axis := ndim - 2; axis >= 0; axis-- {
		s.transformAxis(slab, dims, axis, false)
	}
}

// Backward transforms the slab's half-complex Fourier coefficients back to
// real data in place.
func (s *Serial) Backward(slab []complex128, ndim, nmesh, localNx int) {
	s.check(slab, ndim, nmesh, localNx)

	halfC := nmesh/2 + 1
	pad := 2 * halfC
	reals := lib.Complex128sAsFloat64s(slab)

	dims := complexDims(ndim, nmesh)
	for axis := 0; axis <= ndim-2; axis++ {
		s.transformAxis(slab, dims, axis, true)
	}

	nlines := lib.IntPow(nmesh, ndim-1)
	for l := 0; l < nlines; l++ {
		copy(s.lineBuf[:halfC], slab[l*halfC:(l+1)*halfC])
		s.real.Sequence(s.realBuf, s.lineBuf[:halfC])
		copy(reals[l*pad:l*pad+nmesh], s.realBuf)
	}
}

func (s *Serial) check(slab []complex128, ndim, nmesh, localNx int) {
	if nmesh != s.nmesh {
		error.External("the serial transform backend was planned for Nmesh = %d, but was handed a grid with Nmesh = %d.", s.nmesh, nmesh)
	}
	if ndim < 1 {
		error.External("transform requested for a %d-dimensional grid.", ndim)
	}
	if localNx != nmesh {
		error.External("the serial transform backend cannot transform a decomposed slab (local extent %d of %d). Use a distributed backend instead.", localNx, nmesh)
	}
	want := (nmesh/2 + 1) * lib.IntPow(nmesh, ndim-1)
	if len(slab) != want {
		error.Internal("slab has %d complex cells, expected %d for ndim = %d, Nmesh = %d.", len(slab), want, ndim, nmesh)
	}
}

func complexDims(ndim, nmesh int) []int {
	dims := make([]int, ndim)
	for d := 0; d < ndim-1; d++ {
		dims[d] = nmesh
	}
	dims[ndim-1] = nmesh/2 + 1
	return dims
}

// transformAxis runs the length-nmesh complex transform along one axis,
// gathering strided lines through a scratch buffer.
func (s *Serial) transformAxis(data []complex128, dims []int, axis int, inverse bool) {
	stride := 1
	for d := axis + 1; d < len(dims); d++ {
		stride *= dims[d]
	}
	n := dims[axis]

	total := 1
	for _, d := range dims {
		total *= d
	}

	for base := 0; base < total; base++ {
		if (base/stride)%n != 0 {
			continue
		}
		line := s.lineBuf[:n]
		for j := 0; j < n; j++ {
			line[j] = data[base+j*stride]
		}
		if inverse {
			s.cmplx.Sequence(line, line)
		} else {
			s.cmplx.Coefficients(line, line)
		}
		for j := 0; j < n; j++ {
			data[base+j*stride] = line[j]
		}
	}
}
