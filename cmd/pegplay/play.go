package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hailam/pegplay/internal/protocol"
	"github.com/hailam/pegplay/internal/solver"
	"github.com/hailam/pegplay/internal/storage"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "play",
		Short: "Play over a line-oriented text protocol on stdin/stdout",
		Long: `Read one command per line from stdin and answer on stdout.

Examples:
  pegplay play
  echo -e "remove 16\nmoves\nd" | pegplay play --layout english`,
		Args: cobra.NoArgs,
		RunE: runPlay,
	})
}

func runPlay(cmd *cobra.Command, args []string) error {
	st := openMemoStore()
	seen := make(map[uint64]*solver.Engine)

	p, err := protocol.New(os.Stdin, os.Stdout, protocol.Options{
		Layout:      cfg.Layout,
		HistorySize: cfg.HistorySize,
		OnLayout: func(layout string, e *solver.Engine) {
			fp := e.Geometry().Fingerprint()
			if _, ok := seen[fp]; ok {
				return
			}
			seen[fp] = e
			loadMemo(st, e)
		},
	})
	if err != nil {
		closeStore(st)
		return err
	}

	runErr := p.Run()
	for _, e := range seen {
		saveMemo(st, e)
	}
	closeStore(st)
	return runErr
}

func closeStore(st *storage.Storage) {
	if st != nil {
		st.Close()
	}
}
