package mpi

import (
	"sync"
	"testing"

	"github.com/LBJ-Wade/FML/lib"
	"github.com/LBJ-Wade/FML/lib/eq"
)

func TestSelfSendrecv(t *testing.T) {
	send := []float64{1, 2, 3, 4}
	recv := make([]float64, 4)

	comm := Self{}
	comm.Sendrecv(lib.Float64sAsBytes(send), 0, lib.Float64sAsBytes(recv), 0)

	if !eq.Float64s(send, recv) {
		t.Errorf("Self.Sendrecv copied %v, expected %v.", recv, send)
	}
	if comm.Rank() != 0 || comm.Size() != 1 {
		t.Errorf("Self has rank %d of %d, expected 0 of 1.", comm.Rank(), comm.Size())
	}
}

func TestSelfSumFloat64(t *testing.T) {
	if sum := (Self{}).SumFloat64(3.5); sum != 3.5 {
		t.Errorf("Self.SumFloat64(3.5) = %g.", sum)
	}
}

// Each rank sends its rank number one step around the ring and checks that
// its left neighbor's number arrives.
func TestLocalGroupRingExchange(t *testing.T) {
	n := 4
	comms := NewLocalGroup(n)

	wg := &sync.WaitGroup{}
	for r := 0; r < n; r++ {
		wg.Add(1)
		go func(comm Comm) {
			defer wg.Done()
			rank, size := comm.Rank(), comm.Size()
			right := (rank + 1) % size
			left := (rank - 1 + size) % size

			send := []float64{float64(rank)}
			recv := make([]float64, 1)
			comm.Sendrecv(lib.Float64sAsBytes(send), right, lib.Float64sAsBytes(recv), left)

			if recv[0] != float64(left) {
				t.Errorf("rank %d received %g, expected %d.", rank, recv[0], left)
			}
		}(comms[r])
	}
	wg.Wait()
}

func TestLocalGroupSumFloat64(t *testing.T) {
	n := 4
	comms := NewLocalGroup(n)
	want := float64(0 + 1 + 2 + 3)

	wg := &sync.WaitGroup{}
	for r := 0; r < n; r++ {
		wg.Add(1)
		go func(comm Comm) {
			defer wg.Done()
			sum := comm.SumFloat64(float64(comm.Rank()))
			if sum != want {
				t.Errorf("rank %d got a global sum of %g, expected %g.", comm.Rank(), sum, want)
			}
		}(comms[r])
	}
	wg.Wait()
}
