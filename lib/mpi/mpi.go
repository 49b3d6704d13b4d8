/*package mpi provides the process-topology contract consumed by the grid and
interpolation packages: the rank and size of the process group, a blocking
pairwise exchange of fixed-size byte buffers, and a global sum.

The grid only ever talks to its two slab neighbors in fixed send/receive
pairs, so this is the whole surface a real MPI binding has to cover. Two
implementations ship with the library: Self, the degenerate one-rank topology
whose exchange is a memcpy (this is what makes ghost exchange double as
periodic wraparound in a serial run), and LocalGroup, an in-process group of
ranks connected by channels, used to exercise the distributed code paths
without an MPI launcher.
*/
package mpi

import (
	"github.com/LBJ-Wade/FML/lib/error"
)

// Comm is one rank's view of a process group.
type Comm interface {
	// Rank returns the index of the calling process in the group.
	Rank() int
	// Size returns the number of processes in the group.
	Size() int
	// Sendrecv sends send to dest and receives from src into recv as one
	// blocking step. Both buffers must have the same length and the peers
	// must post the matching exchange, otherwise the group deadlocks.
	Sendrecv(send []byte, dest int, recv []byte, src int)
	// SumFloat64 returns the sum of x over every rank in the group. All
	// ranks must call it.
	SumFloat64(x float64) float64
}

// Self is the one-rank topology. Sendrecv copies the send buffer straight
// into the receive buffer.
type Self struct{}

func (Self) Rank() int { return 0 }
func (Self) Size() int { return 1 }

func (Self) Sendrecv(send []byte, dest int, recv []byte, src int) {
	if dest != 0 || src != 0 {
		error.Internal("Sendrecv on a one-rank group with dest = %d, src = %d.", dest, src)
	}
	if len(send) != len(recv) {
		error.Internal("Sendrecv buffers have mismatched lengths %d and %d.", len(send), len(recv))
	}
	copy(recv, send)
}

func (Self) SumFloat64(x float64) float64 { return x }

type localGroup struct {
	n   int
	msg [][]chan []byte // msg[from][to]
	sum []chan float64
	res []chan float64
}

type localComm struct {
	rank int
	g    *localGroup
}

// NewLocalGroup creates n connected Comms backed by channels. Each returned
// Comm must be used by exactly one goroutine, which stands in for one rank.
func NewLocalGroup(n int) []Comm {
	if n < 1 {
		error.Internal("NewLocalGroup called with n = %d.", n)
	}

	g := &localGroup{n: n}
	g.msg = make([][]chan []byte, n)
	for from := 0; from < n; from++ {
		g.msg[from] = make([]chan []byte, n)
		for to := 0; to < n; to++ {
			g.msg[from][to] = make(chan []byte, 1)
		}
	}

	g.sum = make([]chan float64, n)
	g.res = make([]chan float64, n)
	for r := 0; r < n; r++ {
		g.sum[r] = make(chan float64, 1)
		g.res[r] = make(chan float64, 1)
	}

	comms := make([]Comm, n)
	for r := 0; r < n; r++ {
		comms[r] = &localComm{r, g}
	}
	return comms
}

func (c *localComm) Rank() int { return c.rank }
func (c *localComm) Size() int { return c.g.n }

func (c *localComm) Sendrecv(send []byte, dest int, recv []byte, src int) {
	if len(send) != len(recv) {
		error.Internal("Sendrecv buffers have mismatched lengths %d and %d.", len(send), len(recv))
	}
	if dest < 0 || dest >= c.g.n || src < 0 || src >= c.g.n {
		error.Internal("Sendrecv peers (%d, %d) out of range for a %d-rank group.", dest, src, c.g.n)
	}

	// The copy lets the exchange stay blocking-step-shaped without racing
	// against the sender reusing its buffer.
	buf := make([]byte, len(send))
	copy(buf, send)
	c.g.msg[c.rank][dest] <- buf

	data := <-c.g.msg[src][c.rank]
	if len(data) != len(recv) {
		error.Internal("rank %d received %d bytes from rank %d, expected %d.", c.rank, len(data), src, len(recv))
	}
	copy(recv, data)
}

func (c *localComm) SumFloat64(x float64) float64 {
	if c.rank != 0 {
		c.g.sum[c.rank] <- x
		return <-c.g.res[c.rank]
	}

	total := x
	for r := 1; r < c.g.n; r++ {
		total += <-c.g.sum[r]
	}
	for r := 1; r < c.g.n; r++ {
		c.g.res[r] <- total
	}
	return total
}
