/*package grid implements a slab-decomposed N-dimensional mesh that holds
real-space and Fourier-space views of the same storage.

The layout follows the in-place real-to-complex transform convention: the
last axis is padded from Nmesh real values to 2*(Nmesh/2+1) so the
half-complex spectrum of a forward transform fits in the same buffer. A
single []complex128 allocation backs both views; the real view is an aliased
[]float64 over the same memory. Exactly one of the two views is meaningful at
a time, tracked by the real-space flag.

The mesh is decomposed along axis 0 into one contiguous slab per rank. A
configurable number of extra "ghost" slices is allocated on each side of the
owned slab; the interpolation package uses them so that stencils straddling a
slab boundary can be evaluated locally and reconciled afterwards. The buffer
is laid out [left ghosts][owned slab][right ghosts], and axis-0 coordinates
are slab-relative: ghost slices are addressed with negative values or values
at or beyond the local extent.
*/
package grid

import (
	"log"
	"math"

	"github.com/LBJ-Wade/FML/lib"
	"github.com/LBJ-Wade/FML/lib/error"
	"github.com/LBJ-Wade/FML/lib/mpi"
)

// CellCenterShifted positions mesh nodes at cell centers rather than cell
// corners. This is a layout policy fixed at build time; the interpolation
// package carries a matching constant.
const CellCenterShifted = true

// DebugState enables warnings when a grid is filled or transformed while the
// other view is the valid one.
var DebugState = false

// Transformer is the transform backend contract: in-place transforms over
// the owned slab only, unnormalized in both directions. Implementations may
// clobber the padding but must not touch memory outside the slab.
type Transformer interface {
	Forward(slab []complex128, ndim, nmesh, localNx int)
	Backward(slab []complex128, ndim, nmesh, localNx int)
}

// Grid is one rank's slab of the global mesh.
type Grid struct {
	ndim, nmesh          int
	localNx, localXStart int
	nLeft, nRight        int

	numReal      int // active unpadded real cells in the owned slab
	complexTotal int // active complex cells in the owned slab
	complexSlice int // complex cells per axis-0 slice
	realSliceLen int // floats per axis-0 slice, padding included
	complexAlloc int // complex cells allocated, ghosts included

	realSpace bool

	data   []complex128
	floats []float64 // aliased view of data

	comm mpi.Comm
	fft  Transformer
}

// New allocates a zero-initialized grid with nmesh cells per axis and the
// given number of extra ghost slices on each side of the owned slab. comm
// may be nil for a serial grid, and fft may be nil for a grid that will
// never be transformed. When the group has more than one rank, nmesh must be
// divisible by the rank count and ndim must be at least 2; violating either
// is a fatal configuration error.
func New(ndim, nmesh, nLeft, nRight int, comm mpi.Comm, fft Transformer) *Grid {
	if comm == nil {
		comm = mpi.Self{}
	}
	if ndim < 1 {
		error.External("grids must have at least one dimension, not %d.", ndim)
	}
	if nmesh < 1 {
		error.External("grids must have a positive mesh size, not %d.", nmesh)
	}
	if nLeft < 0 || nRight < 0 {
		error.External("ghost slice counts (%d, %d) must be non-negative.", nLeft, nRight)
	}
	if comm.Size() > 1 {
		if ndim == 1 {
			error.External("one-dimensional grids cannot be decomposed across %d ranks.", comm.Size())
		}
		if nmesh%comm.Size() != 0 {
			error.External("the number of ranks (%d) must divide Nmesh (%d), otherwise slab extents are uneven and the transform layout breaks.", comm.Size(), nmesh)
		}
	}

	g := &Grid{
		ndim: ndim, nmesh: nmesh,
		nLeft: nLeft, nRight: nRight,
		realSpace: true,
		comm:      comm, fft: fft,
	}

	halfC := nmesh/2 + 1
	g.localNx = nmesh / comm.Size()
	g.localXStart = comm.Rank() * g.localNx
	g.complexSlice = halfC * lib.IntPow(nmesh, ndim-2)
	g.realSliceLen = 2 * g.complexSlice
	if ndim == 1 {
		g.complexTotal = halfC
	} else {
		g.complexTotal = g.localNx * g.complexSlice
	}
	g.numReal = g.localNx * lib.IntPow(nmesh, ndim-1)
	g.complexAlloc = g.complexTotal + g.complexSlice*(nLeft+nRight)

	g.data = make([]complex128, g.complexAlloc)
	g.floats = lib.Complex128sAsFloat64s(g.data)
	return g
}

// Copy returns a deep copy of the grid sharing the same topology and
// transform backend.
func (g *Grid) Copy() *Grid {
	c := *g
	c.data = append([]complex128(nil), g.data...)
	c.floats = lib.Complex128sAsFloat64s(c.data)
	return &c
}

// Free releases the grid's storage.
func (g *Grid) Free() {
	g.data = nil
	g.floats = nil
}

func (g *Grid) Ndim() int         { return g.ndim }
func (g *Grid) Nmesh() int        { return g.nmesh }
func (g *Grid) LocalNx() int      { return g.localNx }
func (g *Grid) LocalXStart() int  { return g.localXStart }
func (g *Grid) ExtraLeft() int    { return g.nLeft }
func (g *Grid) ExtraRight() int   { return g.nRight }
func (g *Grid) Comm() mpi.Comm    { return g.comm }
func (g *Grid) IsRealSpace() bool { return g.realSpace }

// SetRealSpace overrides which view of the storage is considered valid.
func (g *Grid) SetRealSpace(realSpace bool) { g.realSpace = realSpace }

// NumRealCells returns the number of active (unpadded) real cells in the
// owned slab.
func (g *Grid) NumRealCells() int { return g.numReal }

// NumFourierCells returns the number of active complex cells in the owned
// slab.
func (g *Grid) NumFourierCells() int { return g.complexTotal }

// NumFourierCellsAlloc returns the number of complex cells allocated,
// ghost slices included.
func (g *Grid) NumFourierCellsAlloc() int { return g.complexAlloc }

// RealSliceLen returns the number of floats in one axis-0 slice, padding
// included. This is the jump between consecutive slices in the real view.
func (g *Grid) RealSliceLen() int { return g.realSliceLen }

// RealSlice returns the float data of one axis-0 slice. The slice index is
// slab-relative and may lie in the ghost range [-ExtraLeft, LocalNx+ExtraRight).
func (g *Grid) RealSlice(slice int) []float64 {
	if slice < -g.nLeft || slice >= g.localNx+g.nRight {
		error.Internal("slice %d out of range [%d, %d).", slice, -g.nLeft, g.localNx+g.nRight)
	}
	start := (g.nLeft + slice) * g.realSliceLen
	return g.floats[start : start+g.realSliceLen]
}

// ownedSlab returns the complex cells of the owned slab, ghosts excluded.
func (g *Grid) ownedSlab() []complex128 {
	start := g.nLeft * g.complexSlice
	return g.data[start : start+g.complexTotal]
}

// IndexReal maps a coordinate to an index into the real view, relative to
// the start of the owned slab. Axis 0 may address ghost slices.
func (g *Grid) IndexReal(coord []int) int {
	if g.ndim == 1 {
		return coord[0]
	}
	idx := coord[0]
	for d := 1; d < g.ndim-1; d++ {
		idx = idx*g.nmesh + coord[d]
	}
	return idx*2*(g.nmesh/2+1) + coord[g.ndim-1]
}

// IndexFourier maps a coordinate to an index into the Fourier view. Axis 0
// runs over [0, LocalNx) and the last axis over [0, Nmesh/2+1).
func (g *Grid) IndexFourier(coord []int) int {
	if g.ndim == 1 {
		return coord[0]
	}
	idx := coord[0]
	for d := 1; d < g.ndim-1; d++ {
		idx = idx*g.nmesh + coord[d]
	}
	return idx*(g.nmesh/2+1) + coord[g.ndim-1]
}

// CoordFromRealIndex inverts IndexReal for indexes inside the owned slab.
func (g *Grid) CoordFromRealIndex(index int) []int {
	coord := make([]int, g.ndim)
	if g.ndim == 1 {
		coord[0] = index
		return coord
	}
	pad := 2 * (g.nmesh/2 + 1)
	coord[g.ndim-1] = index % pad
	index /= pad
	for d := g.ndim - 2; d >= 1; d-- {
		coord[d] = index % g.nmesh
		index /= g.nmesh
	}
	coord[0] = index
	return coord
}

// CoordFromFourierIndex inverts IndexFourier.
func (g *Grid) CoordFromFourierIndex(index int) []int {
	coord := make([]int, g.ndim)
	halfC := g.nmesh/2 + 1
	coord[g.ndim-1] = index % halfC
	index /= halfC
	for d := g.ndim - 2; d >= 1; d-- {
		coord[d] = index % g.nmesh
		index /= g.nmesh
	}
	coord[0] = index
	return coord
}

// Real returns the value at a real-space coordinate.
func (g *Grid) Real(coord []int) float64 {
	return g.RealFromIndex(g.IndexReal(coord))
}

// SetReal sets the value at a real-space coordinate.
func (g *Grid) SetReal(coord []int, value float64) {
	g.SetRealFromIndex(g.IndexReal(coord), value)
}

// AddReal adds value to the cell at a real-space coordinate. Deposition uses
// this as its read-modify-write primitive.
func (g *Grid) AddReal(coord []int, value float64) {
	g.floats[g.nLeft*g.realSliceLen+g.IndexReal(coord)] += value
}

func (g *Grid) RealFromIndex(index int) float64 {
	return g.floats[g.nLeft*g.realSliceLen+index]
}

func (g *Grid) SetRealFromIndex(index int, value float64) {
	g.floats[g.nLeft*g.realSliceLen+index] = value
}

// Fourier returns the value at a Fourier-space coordinate.
func (g *Grid) Fourier(coord []int) complex128 {
	return g.FourierFromIndex(g.IndexFourier(coord))
}

// SetFourier sets the value at a Fourier-space coordinate.
func (g *Grid) SetFourier(coord []int, value complex128) {
	g.SetFourierFromIndex(g.IndexFourier(coord), value)
}

func (g *Grid) FourierFromIndex(index int) complex128 {
	return g.data[g.nLeft*g.complexSlice+index]
}

func (g *Grid) SetFourierFromIndex(index int, value complex128) {
	g.data[g.nLeft*g.complexSlice+index] = value
}

// Position returns the position of a real-space mesh node in [0,1)^ndim.
func (g *Grid) Position(coord []int) []float64 {
	shift := 0.0
	if CellCenterShifted {
		shift = 0.5
	}
	pos := make([]float64, g.ndim)
	pos[0] = (float64(g.localXStart+coord[0]) + shift) / float64(g.nmesh)
	for d := 1; d < g.ndim; d++ {
		pos[d] = (float64(coord[d]) + shift) / float64(g.nmesh)
	}
	return pos
}

// foldFreq maps a non-negative mesh frequency index to its centered
// representation: indexes above Nmesh/2 become negative frequencies.
func (g *Grid) foldFreq(i int) float64 {
	if i <= g.nmesh/2 {
		return float64(i)
	}
	return float64(i - g.nmesh)
}

// Wavevector returns the wavevector of a Fourier-space mesh node. For a
// physical wavevector, divide by the box size.
func (g *Grid) Wavevector(coord []int) []float64 {
	kvec := make([]float64, g.ndim)
	kvec[0] = 2 * math.Pi * g.foldFreq(g.localXStart+coord[0])
	for d := 1; d < g.ndim; d++ {
		kvec[d] = 2 * math.Pi * g.foldFreq(coord[d])
	}
	return kvec
}

// WavevectorFromIndex returns the wavevector of the Fourier-space cell at a
// storage index.
func (g *Grid) WavevectorFromIndex(index int) []float64 {
	return g.Wavevector(g.CoordFromFourierIndex(index))
}

// WavevectorNorm2FromIndex returns the wavevector and its squared norm.
func (g *Grid) WavevectorNorm2FromIndex(index int) ([]float64, float64) {
	kvec := g.WavevectorFromIndex(index)
	kmag2 := 0.0
	for d := range kvec {
		kmag2 += kvec[d] * kvec[d]
	}
	return kvec, kmag2
}

// ForEachRealIndex calls f with the storage index of every active cell in
// the owned slab, skipping the transform padding at the end of each
// last-axis row.
func (g *Grid) ForEachRealIndex(f func(index int)) {
	if g.ndim == 1 {
		for i := 0; i < g.nmesh; i++ {
			f(i)
		}
		return
	}
	pad := 2 * (g.nmesh/2 + 1)
	rows := g.numReal / g.nmesh
	for r := 0; r < rows; r++ {
		base := r * pad
		for j := 0; j < g.nmesh; j++ {
			f(base + j)
		}
	}
}

// ForEachFourierIndex calls f with the storage index of every active complex
// cell in the owned slab.
func (g *Grid) ForEachFourierIndex(f func(index int)) {
	for i := 0; i < g.complexTotal; i++ {
		f(i)
	}
}

// FillReal sets every real cell, ghost slices and padding included.
func (g *Grid) FillReal(value float64) {
	if DebugState && !g.realSpace {
		error.Warn("FillReal on a grid whose valid view is Fourier space.")
	}
	for i := range g.floats {
		g.floats[i] = value
	}
}

// FillRealFunc sets every active cell of the owned slab from a function of
// node position, then exchanges boundaries so the ghost slices are
// consistent for an immediately following interpolation read.
func (g *Grid) FillRealFunc(f func(pos []float64) float64) {
	if DebugState && !g.realSpace {
		error.Warn("FillRealFunc on a grid whose valid view is Fourier space.")
	}
	g.ForEachRealIndex(func(index int) {
		coord := g.CoordFromRealIndex(index)
		g.SetRealFromIndex(index, f(g.Position(coord)))
	})
	g.CommunicateBoundaries()
}

// FillFourier sets every complex cell, ghost slices included.
func (g *Grid) FillFourier(value complex128) {
	if DebugState && g.realSpace {
		error.Warn("FillFourier on a grid whose valid view is real space.")
	}
	for i := range g.data {
		g.data[i] = value
	}
}

// FillFourierFunc sets every active Fourier cell from a function of the
// cell's wavevector.
func (g *Grid) FillFourierFunc(f func(kvec []float64) complex128) {
	if DebugState && g.realSpace {
		error.Warn("FillFourierFunc on a grid whose valid view is real space.")
	}
	g.ForEachFourierIndex(func(index int) {
		g.SetFourierFromIndex(index, f(g.WavevectorFromIndex(index)))
	})
}

// CommunicateBoundaries copies boundary-adjacent owned slices into the ghost
// slices of the topological neighbors: the lowest owned slices go to the
// previous rank while the next rank's lowest slices arrive in the right
// ghosts, and mirrored for the left side. On a one-rank group this realizes
// periodic wraparound along axis 0. It copies input data only; deposited
// ghost contributions are reconciled separately by the interpolation
// package.
func (g *Grid) CommunicateBoundaries() {
	nToRight := g.nRight
	nToLeft := g.nLeft
	if nToRight > g.localNx {
		nToRight = g.localNx
	}
	if nToLeft > g.localNx {
		nToLeft = g.localNx
	}

	rank, size := g.comm.Rank(), g.comm.Size()
	rightRank := (rank + 1) % size
	leftRank := (rank - 1 + size) % size

	for i := 0; i < nToRight; i++ {
		send := g.RealSlice(i)
		recv := g.RealSlice(g.localNx + i)
		g.comm.Sendrecv(lib.Float64sAsBytes(send), leftRank, lib.Float64sAsBytes(recv), rightRank)
	}

	for i := 0; i < nToLeft; i++ {
		send := g.RealSlice(g.localNx - 1 - i)
		recv := g.RealSlice(-1 - i)
		g.comm.Sendrecv(lib.Float64sAsBytes(send), rightRank, lib.Float64sAsBytes(recv), leftRank)
	}
}

// HasNaN reports whether any allocated cell holds a NaN. It logs the first
// offending index but never aborts; callers decide what a NaN means.
func (g *Grid) HasNaN() bool {
	for i := range g.data {
		if math.IsNaN(real(g.data[i])) || math.IsNaN(imag(g.data[i])) {
			log.Printf("found NaN in grid. Index = %d", i)
			return true
		}
	}
	return false
}

// Info logs a summary of the grid's geometry on rank 0.
func (g *Grid) Info() {
	if g.comm.Rank() > 0 {
		return
	}
	status := "real space"
	if !g.realSpace {
		status = "Fourier space"
	}
	log.Printf("grid is in %s, ndim %d, allocated %.1f MB per rank", status, g.ndim,
		float64(g.complexAlloc)*16/1e6)
	log.Printf("Nmesh          %d", g.nmesh)
	log.Printf("LocalNx        %d", g.localNx)
	log.Printf("LocalXStart    %d", g.localXStart)
	log.Printf("extra slices   (%d, %d)", g.nLeft, g.nRight)
	log.Printf("complex cells  %d active, %d allocated", g.complexTotal, g.complexAlloc)
	log.Printf("cells/slice    %d complex, %d real with padding", g.complexSlice, g.realSliceLen)
}
