package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fmlmesh",
	Short: "Particle-mesh utilities: density assignment, transforms, and spectra",
	Long: `
fmlmesh deposits particle distributions onto a periodic mesh with B-spline
assignment kernels, transforms the mesh to Fourier space, and estimates
power spectra. Grids can be dumped to disk and inspected later.`,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
