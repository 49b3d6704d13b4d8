package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LBJ-Wade/FML/lib/grid"
	"github.com/LBJ-Wade/FML/lib/mpi"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [prefix]",
	Short: "Print the geometry of a dumped grid and check it for NaNs",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ndim, _ := cmd.Flags().GetInt("ndim")
		compress, _ := cmd.Flags().GetBool("compress")

		// Load replaces every geometry field except the dimension, so the
		// placeholder mesh size never survives.
		g := grid.New(ndim, 1, 0, 0, mpi.Self{}, nil)
		if compress {
			g.LoadCompressed(args[0])
		} else {
			g.Load(args[0])
		}

		g.Info()
		if g.HasNaN() {
			fmt.Println("the grid contains NaN cells")
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().IntP("ndim", "d", 3, "dimension of the dumped grid")
	infoCmd.Flags().Bool("compress", false, "the dump is zstd-compressed")
}
