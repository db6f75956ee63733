package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/solver"
)

var (
	solveAll     bool
	solveTimeout time.Duration
)

func init() {
	solveCmd := &cobra.Command{
		Use:   "solve [layout]",
		Short: "Report which single-hole starts of a layout can be solved",
		Long: `For every cell of the layout, start from the full board with that
one peg removed and decide whether the game can still end with a single
peg on the goal cell.

Examples:
  pegplay solve english
  pegplay solve diamond --all
  pegplay solve arrow --all --timeout 5m`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSolve,
	}
	solveCmd.Flags().BoolVar(&solveAll, "all", false, fmt.Sprintf("Also classify every state of the board (boards up to %d cells)", solver.MaxCensusCells))
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 0, "Stop the --all census after this long (0 means no limit)")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	name := cfg.Layout
	if len(args) == 1 {
		name = args[0]
	}
	geo, err := board.Layout(name)
	if err != nil {
		return err
	}

	st := openMemoStore()
	defer closeStore(st)
	e := solver.Shared(geo)
	loadMemo(st, e)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d cells, goal %s\n", name, geo.NumCells(), geo.Goal())

	start := time.Now()
	solvable := 0
	for c := board.Cell(0); int(c) < geo.NumCells(); c++ {
		ok := e.IsSolvable(geo.Full().Clear(c))
		if ok {
			solvable++
		}
		row, col := geo.Coord(c)
		fmt.Fprintf(out, "  hole %2d (row %d, col %d): %s\n", c, row, col, verdict(ok))
	}
	stats := e.Stats()
	fmt.Fprintf(out, "%d of %d starts solvable, %s memo entries, %s\n",
		solvable, geo.NumCells(), humanize.Comma(int64(stats.Entries)), time.Since(start).Round(time.Millisecond))

	if solveAll {
		if err := census(cmd.Context(), cmd, e); err != nil {
			return err
		}
	}

	saveMemo(st, e)
	return nil
}

func census(ctx context.Context, cmd *cobra.Command, e *solver.Engine) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, solveTimeout)
		defer cancel()
	}

	start := time.Now()
	yes, no, err := e.Census(ctx)
	if err != nil {
		return fmt.Errorf("census: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "census: %s solvable, %s unsolvable states in %s\n",
		humanize.Comma(int64(yes)), humanize.Comma(int64(no)), time.Since(start).Round(time.Millisecond))
	return nil
}

func verdict(ok bool) string {
	if ok {
		return "solvable"
	}
	return "unsolvable"
}
