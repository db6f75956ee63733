// Package solver decides whether a peg solitaire state can still be solved.
package solver

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/pegplay/internal/board"
)

// Stats describes the memo table of an engine.
type Stats struct {
	Entries int     // States with a known answer
	Probes  uint64  // Memo lookups during search
	Hits    uint64  // Lookups answered from the memo
	HitRate float64 // Hits as a percentage of probes
}

// Engine answers solvability queries for one geometry. Results are
// memoized for the lifetime of the engine: solvability of a state never
// changes, so entries are never invalidated.
//
// The public methods serialize on a mutex so one engine can be shared by
// several sessions; the search itself runs without further locking.
type Engine struct {
	geo *board.Geometry

	mu     sync.Mutex
	memo   map[board.Bitboard]bool
	probes uint64
	hits   uint64
}

// NewEngine creates an engine for the geometry with a memo seeded with the
// solved state.
func NewEngine(geo *board.Geometry) *Engine {
	e := &Engine{
		geo:  geo,
		memo: make(map[board.Bitboard]bool, 1024),
	}
	e.memo[geo.GoalMask()] = true
	return e
}

// Geometry returns the geometry the engine solves for.
func (e *Engine) Geometry() *board.Geometry {
	return e.geo
}

// IsSolvable reports whether some sequence of jumps from state ends with a
// single peg on the goal cell. States with no pegs, or with bits outside
// the board, are never solvable.
func (e *Engine) IsSolvable(state board.Bitboard) bool {
	if state == 0 || !e.geo.Valid(state) || state.PopCount() > e.geo.NumCells() {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if result, ok := e.memo[state]; ok {
		e.probes++
		e.hits++
		return result
	}

	start := time.Now()
	before := len(e.memo)
	result := e.solve(state)
	if grown := len(e.memo) - before; grown > 10000 {
		log.Debug().
			Int("pegs", state.PopCount()).
			Int("new_entries", grown).
			Dur("took", time.Since(start)).
			Bool("solvable", result).
			Msg("cold solvability search")
	}
	return result
}

// solve is the memoized depth-first search. Every jump removes a peg, so
// the recursion depth is bounded by the peg count and cannot cycle.
func (e *Engine) solve(state board.Bitboard) bool {
	e.probes++
	if result, ok := e.memo[state]; ok {
		e.hits++
		return result
	}

	// The goal state is seeded, so any other single peg is a dead end.
	result := false
	if !state.IsSingle() {
		pegs := state
	search:
		for pegs != 0 {
			src := pegs.PopLSB()
			for _, d := range board.Directions {
				next, ok := e.geo.TryMove(state, src, d)
				if ok && e.solve(next) {
					result = true
					break search
				}
			}
		}
	}

	e.memo[state] = result
	return result
}

// Known returns the memoized answer for state without searching.
func (e *Engine) Known(state board.Bitboard) (solvable, known bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	solvable, known = e.memo[state]
	return solvable, known
}

// Successors lists the states reachable by one jump, ordered by source
// cell and then direction.
func (e *Engine) Successors(state board.Bitboard) []board.Bitboard {
	moves := e.geo.LegalMoves(state)
	next := make([]board.Bitboard, len(moves))
	for i, m := range moves {
		next[i] = m.Apply(state)
	}
	return next
}

// Stats returns memo statistics.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Stats{
		Entries: len(e.memo),
		Probes:  e.probes,
		Hits:    e.hits,
	}
	if s.Probes > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Probes) * 100
	}
	return s
}

var (
	sharedMu sync.Mutex
	shared   = make(map[uint64]*Engine)
)

// Shared returns the process-wide engine for a geometry. Engines are keyed
// by geometry fingerprint, so every session on the same board reuses one
// memo table.
func Shared(geo *board.Geometry) *Engine {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if e, ok := shared[geo.Fingerprint()]; ok {
		return e
	}
	e := NewEngine(geo)
	shared[geo.Fingerprint()] = e
	return e
}
