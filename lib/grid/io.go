package grid

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/DataDog/zstd"

	"github.com/LBJ-Wade/FML/lib"
	g_error "github.com/LBJ-Wade/FML/lib/error"
)

/* io.go reads and writes per-rank binary grid snapshots. Every rank writes
its own file, suffixed by its rank, holding a fixed-order header followed by
the raw complex buffer in system byte order. A failed save is logged and
skipped; a failed load is fatal. */

// Dump writes the grid to prefix.<rank>. On I/O failure it logs a warning
// and returns without writing, accepting the data loss.
func (g *Grid) Dump(prefix string) {
	name := fmt.Sprintf("%s.%d", prefix, g.comm.Rank())
	f, err := os.Create(name)
	if err != nil {
		log.Printf("failed to save the grid on rank %d to %s: %v", g.comm.Rank(), name, err)
		return
	}
	defer f.Close()

	if err := g.writeTo(f); err != nil {
		log.Printf("failed to save the grid on rank %d to %s: %v", g.comm.Rank(), name, err)
	}
}

// Load replaces the grid's geometry and data with the contents of
// prefix.<rank>. A missing or unreadable file is fatal, as is a dimension
// mismatch; a loaded snapshot is required state, not an optimization.
func (g *Grid) Load(prefix string) {
	name := fmt.Sprintf("%s.%d", prefix, g.comm.Rank())
	f, err := os.Open(name)
	if err != nil {
		g_error.External("failed to read the grid on rank %d from %s: %v", g.comm.Rank(), name, err)
	}
	defer f.Close()
	g.readFrom(f, name)
}

// DumpCompressed is Dump with a zstd-compressed payload, written to
// prefix.zst.<rank>.
func (g *Grid) DumpCompressed(prefix string) {
	name := fmt.Sprintf("%s.zst.%d", prefix, g.comm.Rank())
	f, err := os.Create(name)
	if err != nil {
		log.Printf("failed to save the grid on rank %d to %s: %v", g.comm.Rank(), name, err)
		return
	}
	defer f.Close()

	zw := zstd.NewWriter(f)
	if err := g.writeTo(zw); err != nil {
		log.Printf("failed to save the grid on rank %d to %s: %v", g.comm.Rank(), name, err)
		zw.Close()
		return
	}
	if err := zw.Close(); err != nil {
		log.Printf("failed to save the grid on rank %d to %s: %v", g.comm.Rank(), name, err)
	}
}

// LoadCompressed is the counterpart of DumpCompressed.
func (g *Grid) LoadCompressed(prefix string) {
	name := fmt.Sprintf("%s.zst.%d", prefix, g.comm.Rank())
	f, err := os.Open(name)
	if err != nil {
		g_error.External("failed to read the grid on rank %d from %s: %v", g.comm.Rank(), name, err)
	}
	defer f.Close()

	zr := zstd.NewReader(f)
	defer zr.Close()
	g.readFrom(zr, name)
}

func (g *Grid) writeTo(w io.Writer) error {
	order := lib.SystemByteOrder()
	header := []interface{}{
		int32(g.ndim), int32(g.nmesh),
		int32(g.nLeft), int32(g.nRight),
		int64(g.localNx), int64(g.localXStart),
		int64(g.complexAlloc), int64(2 * g.complexAlloc),
		int64(g.complexTotal),
		int64(g.complexSlice), int64(g.realSliceLen),
		g.realSpace,
	}
	for _, field := range header {
		if err := binary.Write(w, order, field); err != nil {
			return err
		}
	}
	// The buffer is written through its byte view rather than binary.Write,
	// which reflects over []complex128 one element at a time.
	_, err := w.Write(lib.Complex128sAsBytes(g.data))
	return err
}

func (g *Grid) readFrom(r io.Reader, name string) {
	order := lib.SystemByteOrder()

	var ndim int32
	if err := binary.Read(r, order, &ndim); err != nil {
		g_error.External("failed to read the grid header from %s: %v", name, err)
	}
	if int(ndim) != g.ndim {
		g_error.External("the grid in %s is %d-dimensional, but was loaded into a %d-dimensional grid.", name, ndim, g.ndim)
	}

	var nmesh, nLeft, nRight int32
	var localNx, localXStart, complexAlloc, realAlloc, complexTotal, complexSlice, realSliceLen int64
	var realSpace bool
	fields := []interface{}{
		&nmesh, &nLeft, &nRight,
		&localNx, &localXStart,
		&complexAlloc, &realAlloc, &complexTotal,
		&complexSlice, &realSliceLen,
		&realSpace,
	}
	for _, field := range fields {
		if err := binary.Read(r, order, field); err != nil {
			g_error.External("failed to read the grid header from %s: %v", name, err)
		}
	}

	g.nmesh = int(nmesh)
	g.nLeft, g.nRight = int(nLeft), int(nRight)
	g.localNx, g.localXStart = int(localNx), int(localXStart)
	g.complexAlloc = int(complexAlloc)
	g.complexTotal = int(complexTotal)
	g.complexSlice = int(complexSlice)
	g.realSliceLen = int(realSliceLen)
	g.numReal = g.localNx * lib.IntPow(g.nmesh, g.ndim-1)
	g.realSpace = realSpace

	g.data = make([]complex128, g.complexAlloc)
	g.floats = lib.Complex128sAsFloat64s(g.data)
	if _, err := io.ReadFull(r, lib.Complex128sAsBytes(g.data)); err != nil {
		g_error.External("failed to read the grid data from %s: %v", name, err)
	}
}
