package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/msgmap/packages/builtin"
)

var funcsCmd = &cobra.Command{
	Use:   "funcs",
	Short: "List the functions callable from templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range builtin.NewRegistry().Names() {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s()\n", name)
		}
	},
}
