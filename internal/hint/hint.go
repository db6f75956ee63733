// Package hint marks the cells of moves that keep the board solvable.
package hint

import "github.com/hailam/pegplay/internal/board"

// Oracle answers solvability queries. *solver.Engine implements it.
type Oracle interface {
	IsSolvable(state board.Bitboard) bool
}

// Compute returns the hint cells for state. With no active cell it marks
// every peg that has at least one solvability-preserving jump; with an
// active cell it marks the holes that peg can jump to while staying
// solvable. Nothing is marked when show is false.
func Compute(geo *board.Geometry, o Oracle, state board.Bitboard, active board.Cell, show bool) board.Bitboard {
	if !show {
		return board.Empty
	}
	if active != board.NoCell {
		return Destinations(geo, o, state, active)
	}
	return Sources(geo, o, state)
}

// Sources marks the pegs worth picking up.
func Sources(geo *board.Geometry, o Oracle, state board.Bitboard) board.Bitboard {
	var hints board.Bitboard
	pegs := state & geo.Full()
	for pegs != 0 {
		src := pegs.PopLSB()
		for _, d := range board.Directions {
			if next, ok := geo.TryMove(state, src, d); ok && o.IsSolvable(next) {
				hints = hints.Set(src)
				break
			}
		}
	}
	return hints
}

// Destinations marks the holes the peg at src can land on while keeping
// the board solvable.
func Destinations(geo *board.Geometry, o Oracle, state board.Bitboard, src board.Cell) board.Bitboard {
	var hints board.Bitboard
	for _, d := range board.Directions {
		m, ok := geo.JumpFrom(state, src, d)
		if ok && o.IsSolvable(m.Apply(state)) {
			hints = hints.Set(m.To)
		}
	}
	return hints
}
