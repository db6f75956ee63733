package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hailam/pegplay/internal/board"
)

var layoutsShow bool

func init() {
	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "List the built-in board layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range board.Layouts() {
				geo, err := board.Layout(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-10s %2d cells, goal %s\n", name, geo.NumCells(), geo.Goal())
				if layoutsShow {
					for _, line := range strings.Split(strings.TrimRight(geo.Render(geo.Full().Clear(geo.Goal()), board.Empty), "\n"), "\n") {
						fmt.Fprintf(out, "    %s\n", line)
					}
				}
			}
			return nil
		},
	}
	layoutsCmd.Flags().BoolVarP(&layoutsShow, "show", "s", false, "Draw each board with its goal hole open")
	rootCmd.AddCommand(layoutsCmd)
}
