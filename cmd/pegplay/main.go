// Command pegplay is the terminal and server front end of the peg
// solitaire engine. The windowed game is the module's root main package.
package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hailam/pegplay/internal/config"
)

var (
	cfg config.Config

	flagLayout     string
	flagLogLevel   string
	flagDataDir    string
	flagHistory    int
	flagNoMemo     bool
	flagCPUProfile string

	stopProfile = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "pegplay",
	Short: "Peg solitaire engine",
	Long: `Play peg solitaire from the terminal, serve it over HTTP, or
analyse which starting holes of a board can be solved.

Settings come from PEGPLAY_* environment variables (a .env file is read
first); flags override them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { stopProfile() },
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&flagLayout, "layout", "l", "", "Board layout (see 'pegplay layouts')")
	f.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&flagDataDir, "data-dir", "", "Directory for saved solver memos")
	f.IntVar(&flagHistory, "history", 0, "Undo history size")
	f.BoolVar(&flagNoMemo, "no-memo", false, "Do not load or save solver memos")
	f.StringVar(&flagCPUProfile, "cpuprofile", "", "Write a CPU profile to file")
}

// setup loads the configuration, applies flag overrides and starts
// profiling when asked to.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Load()

	if flagLayout != "" {
		cfg.Layout = flagLayout
	}
	if flagLogLevel != "" {
		lvl, err := zerolog.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagHistory > 0 {
		cfg.HistorySize = flagHistory
	}
	if flagNoMemo {
		cfg.PersistMemo = false
	}
	if flagCPUProfile != "" {
		cfg.CPUProfile = flagCPUProfile
	}

	// The server logs JSON, everything else is read by a person.
	cfg.SetupLogging(cmd.Name() != "serve")

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		stopProfile = func() {
			pprof.StopCPUProfile()
			f.Close()
		}
		log.Info().Str("path", cfg.CPUProfile).Msg("CPU profiling enabled")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
