package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/httpserver"
	"github.com/hailam/pegplay/internal/solver"
	"github.com/hailam/pegplay/internal/store"
)

var flagAddr string

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over a JSON HTTP API",
		Long: `Start the HTTP API. Sessions live in memory; saved solver memos
are loaded into the shared engines at startup.

Examples:
  pegplay serve
  pegplay serve --addr :9000 --log-level debug`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from PEGPLAY_ADDR or :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Addr
	if flagAddr != "" {
		addr = flagAddr
	}

	// The database is only held while warming the engines, so the GUI
	// can still open it while the server runs.
	if st := openMemoStore(); st != nil {
		for _, name := range board.Layouts() {
			geo, err := board.Layout(name)
			if err != nil {
				continue
			}
			loadMemo(st, solver.Shared(geo))
		}
		closeStore(st)
	}

	srv := httpserver.New(store.NewMemoryStore(), cfg.HistorySize)
	log.Info().Str("addr", addr).Msg("listening")
	return srv.Start(addr)
}
