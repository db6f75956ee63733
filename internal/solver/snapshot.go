package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hailam/pegplay/internal/board"
)

// ErrFingerprintMismatch is returned when a snapshot taken for one geometry
// is loaded into an engine for another.
var ErrFingerprintMismatch = errors.New("snapshot fingerprint mismatch")

// ErrBoardTooLarge is returned by Census for boards whose full state space
// is too big to enumerate.
var ErrBoardTooLarge = errors.New("board too large to enumerate")

// MaxCensusCells bounds the boards Census will enumerate.
const MaxCensusCells = 25

// Snapshot is an exported copy of an engine's memo table.
type Snapshot struct {
	Fingerprint uint64
	Solvable    []board.Bitboard
	Unsolvable  []board.Bitboard
}

// Len returns the number of states in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Solvable) + len(s.Unsolvable)
}

// Snapshot exports the memo table. States are sorted so equal memos
// produce equal snapshots.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &Snapshot{Fingerprint: e.geo.Fingerprint()}
	for state, ok := range e.memo {
		if ok {
			s.Solvable = append(s.Solvable, state)
		} else {
			s.Unsolvable = append(s.Unsolvable, state)
		}
	}
	sort.Slice(s.Solvable, func(i, j int) bool { return s.Solvable[i] < s.Solvable[j] })
	sort.Slice(s.Unsolvable, func(i, j int) bool { return s.Unsolvable[i] < s.Unsolvable[j] })
	return s
}

// Load merges a snapshot into the memo table. States outside the board are
// skipped. It returns the number of entries added.
func (e *Engine) Load(s *Snapshot) (int, error) {
	if s == nil {
		return 0, nil
	}
	if s.Fingerprint != e.geo.Fingerprint() {
		return 0, fmt.Errorf("%w: have %016x, snapshot %016x", ErrFingerprintMismatch, e.geo.Fingerprint(), s.Fingerprint)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	merge := func(states []board.Bitboard, solvable bool) {
		for _, state := range states {
			if state == 0 || !e.geo.Valid(state) {
				continue
			}
			if _, ok := e.memo[state]; !ok {
				e.memo[state] = solvable
				added++
			}
		}
	}
	merge(s.Solvable, true)
	merge(s.Unsolvable, false)
	return added, nil
}

// Census classifies every non-empty state of the board. It is the
// exhaustive benchmark of the engine and only runs on small boards.
func (e *Engine) Census(ctx context.Context) (solvable, unsolvable int, err error) {
	n := e.geo.NumCells()
	if n > MaxCensusCells {
		return 0, 0, fmt.Errorf("%w: %d cells, limit %d", ErrBoardTooLarge, n, MaxCensusCells)
	}

	limit := board.Bitboard(1) << uint(n)
	for state := board.Bitboard(1); state < limit; state++ {
		if state&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return solvable, unsolvable, err
			}
		}
		if e.IsSolvable(state) {
			solvable++
		} else {
			unsolvable++
		}
	}
	return solvable, unsolvable, nil
}
