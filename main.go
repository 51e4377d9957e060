package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tabsimplex",
		Short: "Solve linear programs with the tableau simplex method",
		Long: `tabsimplex minimizes c'x subject to Ax = b, x >= 0.

Problems are read from a YAML file (--problem) or an MPS file (--mps).
Without a subcommand the method named in the configuration is used.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, "")
		},
	}
	addConfigFlags(root)
	root.PersistentFlags().String("problem", "", "YAML problem file")
	root.PersistentFlags().String("mps", "", "MPS problem file")

	root.AddCommand(&cobra.Command{
		Use:   "solve",
		Short: "Run the simplex method from the basis given in the problem file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, "simplex")
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "artificial",
		Short: "Find a basis with the artificial basis method, then optimize",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, "artificial")
		},
	})
	return root
}
