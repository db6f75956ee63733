// PegPlay - A peg solitaire game built with Ebitengine
package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/hailam/pegplay/internal/config"
	"github.com/hailam/pegplay/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("game exited")
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	cfg.SetupLogging(true)

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
		log.Info().Str("path", cfg.CPUProfile).Msg("CPU profiling enabled")
	}

	// The saved preference picks the layout unless the environment names one.
	opts := ui.Options{
		HistorySize: cfg.HistorySize,
		DataDir:     cfg.DataDir,
		PersistMemo: cfg.PersistMemo,
	}
	if os.Getenv(config.EnvLayout) != "" {
		opts.Layout = cfg.Layout
	}
	game := ui.NewGame(opts)

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("PegPlay")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		log.Error().Err(err).Msg("close")
	}
	return runErr
}
