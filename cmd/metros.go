package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/rentscore/internal/adapters/regions"
)

var metrosCmd = &cobra.Command{
	Use:   "metros",
	Short: "List the built-in metro areas",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printMetros(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(metrosCmd)
}

func printMetros(out io.Writer) error {
	fmt.Fprintln(out, "Available metro areas:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range regions.Metros() {
		codes, err := regions.MetroCodes(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s\t(%d zip codes)\n", name, len(codes))
	}
	return w.Flush()
}
