package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/LBJ-Wade/FML/lib"
	"github.com/LBJ-Wade/FML/lib/fft"
	"github.com/LBJ-Wade/FML/lib/grid"
	"github.com/LBJ-Wade/FML/lib/interp"
	"github.com/LBJ-Wade/FML/lib/mpi"
	"github.com/LBJ-Wade/FML/lib/power"
)

// depositCmd represents the deposit command
var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit random particles onto a mesh and estimate the power spectrum",
	Long: `
Generates a uniform random particle distribution, deposits it onto a
periodic mesh with the chosen assignment kernel, deconvolves the kernel
window in Fourier space, and prints the binned power spectrum. For a
Poisson sample the spectrum should scatter around 1/Np.

fmlmesh deposit --nmesh 128 --np 100000 --method CIC`,
	Run: func(cmd *cobra.Command, args []string) {
		nmesh, _ := cmd.Flags().GetInt("nmesh")
		np, _ := cmd.Flags().GetInt("np")
		method, _ := cmd.Flags().GetString("method")
		bins, _ := cmd.Flags().GetInt("bins")
		out, _ := cmd.Flags().GetString("out")
		seed, _ := cmd.Flags().GetInt64("seed")
		threads, _ := cmd.Flags().GetInt("threads")
		compress, _ := cmd.Flags().GetBool("compress")
		lib.SetThreads(threads)
		runDeposit(nmesh, np, method, bins, out, seed, compress)
	},
}

func init() {
	rootCmd.AddCommand(depositCmd)
	depositCmd.Flags().IntP("nmesh", "m", 64, "cells per mesh side")
	depositCmd.Flags().IntP("np", "n", 100000, "number of particles")
	depositCmd.Flags().String("method", "CIC", "assignment method: NGP, CIC, TSC, PCS, or PQS")
	depositCmd.Flags().IntP("bins", "b", 16, "number of power spectrum bins")
	depositCmd.Flags().StringP("out", "o", "", "dump the density grid to this file prefix")
	depositCmd.Flags().Int64("seed", 0, "random seed for the particle positions")
	depositCmd.Flags().IntP("threads", "t", -1, "worker threads, -1 uses every core")
	depositCmd.Flags().Bool("compress", false, "zstd-compress the grid dump")
}

type body struct {
	pos [3]float64
}

func (b *body) Position() []float64 { return b.pos[:] }

func runDeposit(nmesh, np int, method string, bins int, out string, seed int64, compress bool) {
	order := interp.OrderFromMethod(method)
	left, right := interp.ExtraSlices(order)

	rng := rand.New(rand.NewSource(seed))
	parts := make([]*body, np)
	for i := range parts {
		parts[i] = &body{[3]float64{rng.Float64(), rng.Float64(), rng.Float64()}}
	}

	density := grid.New(3, nmesh, left, right, mpi.Self{}, fft.NewSerial(nmesh))
	interp.ParticlesToGrid(parts, np, density, order)

	if out != "" {
		if compress {
			density.DumpCompressed(out)
		} else {
			density.Dump(out)
		}
	}

	density.FFTToFourier()
	interp.DeconvolveWindow(density, method)

	spec := power.Compute(density, bins)
	fmt.Printf("# %s deposit of %d particles on a %d^3 mesh\n", method, np, nmesh)
	fmt.Printf("# %12s %14s %8s\n", "k", "P(k)", "modes")
	for b := range spec.K {
		fmt.Printf("  %12.6g %14.6g %8.0f\n", spec.K[b], spec.P[b], spec.Modes[b])
	}

	density.Free()
}
