package main

import (
	"github.com/rs/zerolog/log"

	"github.com/hailam/pegplay/internal/solver"
	"github.com/hailam/pegplay/internal/storage"
)

// openMemoStore opens storage for solver memos, or returns nil when memo
// persistence is off or the database cannot be opened.
func openMemoStore() *storage.Storage {
	if !cfg.PersistMemo {
		return nil
	}
	st, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Warn().Err(err).Msg("solver memos will not be persisted")
		return nil
	}
	return st
}

// loadMemo merges the saved memo for e, if any.
func loadMemo(st *storage.Storage, e *solver.Engine) {
	if st == nil {
		return
	}
	snap, err := st.LoadMemo(e.Geometry().Fingerprint())
	if err != nil {
		log.Warn().Err(err).Msg("load solver memo")
		return
	}
	if added, err := e.Load(snap); err != nil {
		log.Warn().Err(err).Msg("merge solver memo")
	} else if added > 0 {
		log.Debug().Int("entries", added).Msg("solver memo loaded")
	}
}

// saveMemo stores the memo of e.
func saveMemo(st *storage.Storage, e *solver.Engine) {
	if st == nil {
		return
	}
	snap := e.Snapshot()
	if err := st.SaveMemo(snap); err != nil {
		log.Warn().Err(err).Msg("save solver memo")
		return
	}
	log.Debug().Int("entries", snap.Len()).Msg("solver memo saved")
}
