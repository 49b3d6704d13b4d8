package grid

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/LBJ-Wade/FML/lib/mpi"
)

func randomizeGrid(g *Grid, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for slice := -g.ExtraLeft(); slice < g.LocalNx()+g.ExtraRight(); slice++ {
		s := g.RealSlice(slice)
		for j := range s {
			s[j] = rng.Float64()
		}
	}
}

func gridsMatch(t *testing.T, g, h *Grid, what string) {
	t.Helper()
	if h.Nmesh() != g.Nmesh() || h.LocalNx() != g.LocalNx() ||
		h.LocalXStart() != g.LocalXStart() ||
		h.ExtraLeft() != g.ExtraLeft() || h.ExtraRight() != g.ExtraRight() ||
		h.IsRealSpace() != g.IsRealSpace() {
		t.Errorf("%s: loaded geometry does not match the dumped grid.", what)
		return
	}
	for slice := -g.ExtraLeft(); slice < g.LocalNx()+g.ExtraRight(); slice++ {
		gs, hs := g.RealSlice(slice), h.RealSlice(slice)
		for j := range gs {
			if gs[j] != hs[j] {
				t.Errorf("%s: slice %d cell %d loaded as %g, expected %g.", what, slice, j, hs[j], gs[j])
				return
			}
		}
	}
}

func TestDumpLoad(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "grid")

	g := New(3, 4, 1, 2, mpi.Self{}, nil)
	randomizeGrid(g, 99)
	g.SetRealSpace(false)
	g.Dump(prefix)

	h := New(3, 1, 0, 0, mpi.Self{}, nil)
	h.Load(prefix)
	gridsMatch(t, g, h, "uncompressed")
}

func TestDumpLoadCompressed(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "grid")

	g := New(3, 4, 0, 1, mpi.Self{}, nil)
	randomizeGrid(g, 100)
	g.DumpCompressed(prefix)

	h := New(3, 1, 0, 0, mpi.Self{}, nil)
	h.LoadCompressed(prefix)
	gridsMatch(t, g, h, "compressed")
}
