package board

import "fmt"

// Move is a single jump: the peg at From passes over Over and lands on To.
type Move struct {
	From Cell
	Over Cell
	To   Cell
}

// NoMove is the zero-information move.
var NoMove = Move{From: NoCell, Over: NoCell, To: NoCell}

// String returns the move in "from-to" form.
func (m Move) String() string {
	if m.From == NoCell {
		return "0000"
	}
	return fmt.Sprintf("%d-%d", m.From, m.To)
}

// Apply returns the state after the move. It does not check legality.
func (m Move) Apply(state Bitboard) Bitboard {
	return state.Clear(m.From).Clear(m.Over).Set(m.To)
}

// TryMove jumps the peg at src in direction d. It returns the resulting
// state and true, or false when src holds no peg, the neighbor in d is
// missing or empty, or the landing cell is missing or occupied.
func (g *Geometry) TryMove(state Bitboard, src Cell, d Direction) (Bitboard, bool) {
	if !g.Contains(src) || !state.IsSet(src) {
		return state, false
	}
	k := g.Neighbor(src, d)
	if k == NoCell || !state.IsSet(k) {
		return state, false
	}
	j := g.adj[k][d]
	if j == NoCell || state.IsSet(j) {
		return state, false
	}
	return state.Clear(src).Clear(k).Set(j), true
}

// TryJump is TryMove addressed by destination cell instead of direction.
func (g *Geometry) TryJump(state Bitboard, src, dst Cell) (Bitboard, bool) {
	k := g.Middle(src, dst)
	if k == NoCell || !state.IsSet(k) || !state.IsSet(src) || state.IsSet(dst) {
		return state, false
	}
	return state.Clear(src).Clear(k).Set(dst), true
}

// JumpFrom returns the move of the peg at src in direction d, if legal.
func (g *Geometry) JumpFrom(state Bitboard, src Cell, d Direction) (Move, bool) {
	if _, ok := g.TryMove(state, src, d); !ok {
		return NoMove, false
	}
	k := g.adj[src][d]
	return Move{From: src, Over: k, To: g.adj[k][d]}, true
}

// LegalMoves lists every legal jump in the state, ordered by source cell
// and then direction.
func (g *Geometry) LegalMoves(state Bitboard) []Move {
	var moves []Move
	pegs := state & g.full
	for pegs != 0 {
		src := pegs.PopLSB()
		for _, d := range Directions {
			if m, ok := g.JumpFrom(state, src, d); ok {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// HasMoves returns true if at least one legal jump exists.
func (g *Geometry) HasMoves(state Bitboard) bool {
	pegs := state & g.full
	for pegs != 0 {
		src := pegs.PopLSB()
		for _, d := range Directions {
			if _, ok := g.TryMove(state, src, d); ok {
				return true
			}
		}
	}
	return false
}

// Targets returns the landing cells of all legal jumps of the peg at src.
func (g *Geometry) Targets(state Bitboard, src Cell) Bitboard {
	var targets Bitboard
	for _, d := range Directions {
		if m, ok := g.JumpFrom(state, src, d); ok {
			targets = targets.Set(m.To)
		}
	}
	return targets
}
