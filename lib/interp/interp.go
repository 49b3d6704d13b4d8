/*package interp deposits particles onto a distributed grid and interpolates
grid values back to particle positions, using the separable B-spline
assignment kernels defined in kernel.go. Matching the interpolation method to
the density assignment method avoids unphysical self-forces, which is why
both directions share one kernel family.

Deposition produces the density contrast: the grid is primed with -1 in
every cell, each particle adds Nmesh^ndim / NpTot (times its mass over the
mean mass, when particles carry mass) spread over its stencil, and ghost
contributions are folded back onto the owning ranks afterwards. The field
then sums to zero over the global mesh.

Interpolation is the symmetric read: it requires the grid's ghost slices to
already hold neighbor data from Grid.CommunicateBoundaries, and performs no
communication itself.
*/
package interp

import (
	"math"

	"github.com/LBJ-Wade/FML/lib"
	"github.com/LBJ-Wade/FML/lib/error"
	"github.com/LBJ-Wade/FML/lib/grid"
)

// Particle is the capability a particle must expose to be assigned to a
// grid: its position in [0,1)^ndim. Ownership stays with the caller; the
// engine never mutates particles.
type Particle interface {
	Position() []float64
}

// MassiveParticle is a particle with a mass. When the particle type
// implements it, deposition normalizes by the mean mass so the deposited
// field stays a density contrast.
type MassiveParticle interface {
	Particle
	Mass() float64
}

// MovingParticle is a particle with a velocity. The assignment engine does
// not read velocities, but the capability is part of the shared particle
// contract.
type MovingParticle interface {
	Particle
	Velocity() []float64
}

// CheckWeights enables the per-particle consistency check that stencil
// weights sum to unity. A violation indicates a kernel or parity bug and is
// fatal when the check is on.
var CheckWeights = false

const weightTol = 1e-3

// ParticlesToGrid deposits the locally owned particles onto density using
// the order-p kernel. numPartTot is the global particle count across all
// ranks, used for normalization. The grid must have at least the ghost
// slices reported by ExtraSlices(order); every rank in the grid's group must
// call this collectively.
func ParticlesToGrid[T Particle](parts []T, numPartTot int, density *grid.Grid, order int) {
	left, right := ExtraSlices(order)
	if density.ExtraLeft() < left || density.ExtraRight() < right {
		error.External("too few extra slices for order-%d deposition: need (%d, %d), the grid has (%d, %d).",
			order, left, right, density.ExtraLeft(), density.ExtraRight())
	}

	kern := Kernel(order)
	ndim := density.Ndim()
	nmesh := density.Nmesh()
	localXStart := density.LocalXStart()
	stencil := lib.IntPow(order, ndim)
	centerShift := 0.0
	if CellCenterShifted {
		centerShift = 0.5
	}

	// Prime every cell, ghosts included, with the fold-back sentinel. Each
	// received ghost slice is added with a +1 compensation, so one exchange
	// pass both transfers and re-bases the contributions.
	density.FillReal(-1.0)

	normFac := math.Pow(float64(nmesh), float64(ndim)) / float64(numPartTot)
	hasMass := particlesHaveMass(parts)
	if hasMass {
		localMass := 0.0
		for i := range parts {
			localMass += any(parts[i]).(MassiveParticle).Mass()
		}
		meanMass := density.Comm().SumFloat64(localMass) / float64(numPartTot)
		normFac /= meanMass
	}

	x := make([]float64, ndim)
	ix := make([]int, ndim)
	icoord := make([]int, ndim)
	xstart := make([]int, ndim)

	for pi := range parts {
		pos := parts[pi].Position()
		mass := 1.0
		if hasMass {
			mass = any(parts[pi]).(MassiveParticle).Mass()
		}

		for d := 0; d < ndim; d++ {
			x[d] = pos[d] * float64(nmesh)
			ix[d] = int(x[d])
			x[d] -= float64(ix[d])
		}

		ix[0] -= localXStart
		for d := 1; d < ndim; d++ {
			if ix[d] == nmesh {
				ix[d] = 0
			}
		}

		stencilOrigin(order, x, xstart)

		sumWeights := 0.0
		for s := 0; s < stencil; s++ {
			w := 1.0
			n := 1
			for d := 0; d < ndim; d++ {
				step := 0
				if order > 1 {
					step = xstart[d] + (s/n)%order
				}
				icoord[d] = ix[d] + step
				w *= kern(math.Abs(-x[d] + float64(step) + centerShift))
				n *= order
			}

			// Periodic wrap on every axis except the decomposed one, which
			// is ghost-addressed instead.
			for d := 1; d < ndim; d++ {
				if icoord[d] >= nmesh {
					icoord[d] -= nmesh
				}
				if icoord[d] < 0 {
					icoord[d] += nmesh
				}
			}

			density.AddReal(icoord, w*normFac*mass)
			sumWeights += w
		}

		if CheckWeights && math.Abs(sumWeights-1.0) > weightTol {
			error.Internal("deposition stencil weights sum to %v, not unity: kernel or parity bug.", sumWeights)
		}
	}

	foldGhostContributions(density)
}

// ParticlesToGridMethod is ParticlesToGrid keyed by method name.
func ParticlesToGridMethod[T Particle](parts []T, numPartTot int, density *grid.Grid, method string) {
	ParticlesToGrid(parts, numPartTot, density, OrderFromMethod(method))
}

// InterpolateToPositions evaluates the grid at each particle's position with
// the order-p kernel and returns one value per particle, in input order.
// The grid's ghost slices must already hold neighbor data from a prior
// CommunicateBoundaries (or FillRealFunc, which exchanges internally).
func InterpolateToPositions[T Particle](g *grid.Grid, parts []T, order int) []float64 {
	if g.Nmesh() <= 0 {
		error.External("interpolation requested on an unallocated grid.")
	}
	left, right := ExtraSlices(order)
	if g.ExtraLeft() < left || g.ExtraRight() < right {
		error.External("too few extra slices for order-%d interpolation: need (%d, %d), the grid has (%d, %d).",
			order, left, right, g.ExtraLeft(), g.ExtraRight())
	}

	kern := Kernel(order)
	ndim := g.Ndim()
	nmesh := g.Nmesh()
	localNx := g.LocalNx()
	localXStart := g.LocalXStart()
	stencil := lib.IntPow(order, ndim)
	centerShift := 0.0
	if CellCenterShifted {
		centerShift = 0.5
	}

	values := make([]float64, len(parts))

	x := make([]float64, ndim)
	ix := make([]int, ndim)
	icoord := make([]int, ndim)
	xstart := make([]int, ndim)

	for pi := range parts {
		pos := parts[pi].Position()
		for d := 0; d < ndim; d++ {
			x[d] = pos[d] * float64(nmesh)
			ix[d] = int(x[d])
		}

		// Clamp the resolved cell: a particle exactly on the upper domain
		// boundary would otherwise resolve one cell out of range.
		if ix[0] == localXStart+localNx {
			ix[0] = localXStart + localNx - 1
		}
		if ix[0] < localXStart {
			ix[0] = localXStart
		}
		for d := 1; d < ndim; d++ {
			if ix[d] == nmesh {
				ix[d] = nmesh - 1
			}
		}

		for d := 0; d < ndim; d++ {
			x[d] -= float64(ix[d])
		}
		ix[0] -= localXStart

		stencilOrigin(order, x, xstart)

		value := 0.0
		sumWeights := 0.0
		for s := 0; s < stencil; s++ {
			w := 1.0
			n := 1
			for d := 0; d < ndim; d++ {
				step := 0
				if order > 1 {
					step = xstart[d] + (s/n)%order
				}
				icoord[d] = ix[d] + step
				w *= kern(math.Abs(-x[d] + float64(step) + centerShift))
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

			value += g.Real(icoord) * w
			sumWeights += w
		}

		if CheckWeights && math.Abs(sumWeights-1.0) > weightTol {
			error.Internal("interpolation stencil weights sum to %v, not unity: kernel or parity bug.", sumWeights)
		}

		values[pi] = value
	}

	return values
}

// InterpolateToPositionsMethod is InterpolateToPositions keyed by method
// name.
func InterpolateToPositionsMethod[T Particle](g *grid.Grid, parts []T, method string) []float64 {
	return InterpolateToPositions(g, parts, OrderFromMethod(method))
}

// stencilOrigin fills xstart with the leftmost per-axis stencil offset for a
// particle at fractional cell position frac. Even orders sit one-sided on
// the cell; odd orders center on it and shift by one cell when the particle
// is past the midpoint (the shifted layout swaps which parity needs the
// position-dependent shift).
func stencilOrigin(order int, frac []float64, xstart []int) {
	for d := range xstart {
		if order%2 == 0 {
			xstart[d] = -order/2 + 1
			if CellCenterShifted {
				xstart[d] = -order / 2
				if frac[d] > 0.5 {
					xstart[d]++
				}
			}
		} else {
			xstart[d] = -order / 2
			if !CellCenterShifted && frac[d] > 0.5 {
				xstart[d]++
			}
		}
	}
}

// particlesHaveMass reports whether T carries the mass capability. The type
// is checked through a zero value first so empty local slices still agree
// with the other ranks.
func particlesHaveMass[T Particle](parts []T) bool {
	var zero T
	if _, ok := any(zero).(MassiveParticle); ok {
		return true
	}
	if len(parts) > 0 {
		_, ok := any(parts[0]).(MassiveParticle)
		return ok
	}
	return false
}

// foldGhostContributions merges deposited ghost-slice mass into the owning
// neighbor ranks: each right ghost slice is exchanged with the next rank and
// added (minus the -1 sentinel bias) onto the receiver's matching low owned
// slice, then the mirror pass runs for the left ghosts. Must complete before
// anything reads or transforms the grid.
func foldGhostContributions(density *grid.Grid) {
	comm := density.Comm()
	rank, size := comm.Rank(), comm.Size()
	rightRank := (rank + 1) % size
	leftRank := (rank - 1 + size) % size

	localNx := density.LocalNx()
	buf := make([]float64, density.RealSliceLen())

	for i := 0; i < density.ExtraRight(); i++ {
		ghost := density.RealSlice(localNx + i)
		dest := density.RealSlice(i)
		comm.Sendrecv(lib.Float64sAsBytes(ghost), rightRank, lib.Float64sAsBytes(buf), leftRank)
		for j := range dest {
			dest[j] += buf[j] + 1.0
		}
	}

	for i := 1; i <= density.ExtraLeft(); i++ {
		ghost := density.RealSlice(-i)
		dest := density.RealSlice(localNx - i)
		comm.Sendrecv(lib.Float64sAsBytes(ghost), leftRank, lib.Float64sAsBytes(buf), rightRank)
		for j := range dest {
			dest[j] += buf[j] + 1.0
		}
	}
}
