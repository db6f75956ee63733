// Package game holds the interactive peg solitaire session: the current
// board, undo/redo history and the peg selected for a two-step move.
package game

import (
	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/hint"
)

// Phase is the stage of a session.
type Phase int

const (
	// Setup is the untouched starting board; the player removes one peg.
	Setup Phase = iota
	// InProgress is any board reached by at least one committed move.
	InProgress
)

func (p Phase) String() string {
	if p == Setup {
		return "setup"
	}
	return "in-progress"
}

// Status describes how an in-progress game stands.
type Status int

const (
	StatusPlaying Status = iota // jumps are still available
	StatusSolved                // one peg left, on the goal
	StatusStuck                 // no jumps left and not solved
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusStuck:
		return "stuck"
	default:
		return "playing"
	}
}

// Session is a single game on a fixed geometry. Mutating methods report
// whether they had an effect; an illegal request leaves the session
// untouched so a caller can ignore misclicks.
type Session struct {
	geo     *board.Geometry
	initial board.Bitboard
	pegs    board.Bitboard
	active  board.Cell
	history *History[board.Bitboard]
}

// New parses a template and starts a session on it.
func New(template []string) (*Session, error) {
	geo, err := board.ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	return NewSession(geo, DefaultHistorySize), nil
}

// NewSession starts a session with every cell pegged.
func NewSession(geo *board.Geometry, historySize int) *Session {
	return &Session{
		geo:     geo,
		initial: geo.Full(),
		pegs:    geo.Full(),
		active:  board.NoCell,
		history: NewHistory[board.Bitboard](historySize),
	}
}

// Geometry returns the board geometry.
func (s *Session) Geometry() *board.Geometry {
	return s.geo
}

// State returns the current board.
func (s *Session) State() board.Bitboard {
	return s.pegs
}

// Initial returns the starting board.
func (s *Session) Initial() board.Bitboard {
	return s.initial
}

// Phase returns Setup while the board is untouched. Undoing every move
// returns the session to Setup.
func (s *Session) Phase() Phase {
	if s.pegs == s.initial {
		return Setup
	}
	return InProgress
}

// InSetup returns true if the player still has to remove the first peg.
func (s *Session) InSetup() bool {
	return s.Phase() == Setup
}

// PegAt returns true if the cell holds a peg.
func (s *Session) PegAt(c board.Cell) bool {
	return s.geo.Contains(c) && s.pegs.IsSet(c)
}

// Goal returns the goal cell.
func (s *Session) Goal() board.Cell {
	return s.geo.Goal()
}

// PegCount returns the number of pegs on the board.
func (s *Session) PegCount() int {
	return s.pegs.PopCount()
}

// MovesMade returns the number of moves between the starting board and
// the current one. Every move removes exactly one peg.
func (s *Session) MovesMade() int {
	return s.initial.PopCount() - s.pegs.PopCount()
}

// CanUndo returns true if a move can be undone.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo returns true if an undone move can be replayed.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// UndoLen returns the number of moves that can be undone.
func (s *Session) UndoLen() int {
	return s.history.UndoLen()
}

// RedoLen returns the number of undone moves that can be replayed.
func (s *Session) RedoLen() int {
	return s.history.RedoLen()
}

// CanReset returns true if the board differs from the starting board.
func (s *Session) CanReset() bool {
	return s.pegs != s.initial
}

// Active returns the selected source peg, or NoCell.
func (s *Session) Active() board.Cell {
	return s.active
}

// SetActive selects the peg at c as the source of the next move. It only
// succeeds in progress and on a peg.
func (s *Session) SetActive(c board.Cell) bool {
	if s.InSetup() || !s.PegAt(c) {
		return false
	}
	s.active = c
	return true
}

// ClearActive drops the selection.
func (s *Session) ClearActive() {
	s.active = board.NoCell
}

// Targets returns the holes the active peg can legally jump to.
func (s *Session) Targets() board.Bitboard {
	if s.active == board.NoCell {
		return board.Empty
	}
	return s.geo.Targets(s.pegs, s.active)
}

// RemovePeg takes the first peg off the starting board.
func (s *Session) RemovePeg(c board.Cell) bool {
	if !s.InSetup() || !s.PegAt(c) {
		return false
	}
	s.commit(s.pegs.Clear(c))
	return true
}

// Move jumps the peg at src to the hole dst, removing the peg between.
func (s *Session) Move(src, dst board.Cell) bool {
	if s.InSetup() {
		return false
	}
	next, ok := s.geo.TryJump(s.pegs, src, dst)
	if !ok {
		return false
	}
	s.commit(next)
	return true
}

// Click applies a single click on cell c: on the starting board it removes
// the peg, on a peg it toggles the selection, and on a hole it tries to
// jump the selected peg there.
func (s *Session) Click(c board.Cell) bool {
	if !s.geo.Contains(c) {
		return false
	}
	switch {
	case s.InSetup():
		return s.RemovePeg(c)
	case s.PegAt(c):
		if s.active == c {
			s.active = board.NoCell
		} else {
			s.active = c
		}
		return true
	case s.active != board.NoCell:
		return s.Move(s.active, c)
	}
	return false
}

func (s *Session) commit(next board.Bitboard) {
	s.history.Commit(s.pegs)
	s.pegs = next
	s.active = board.NoCell
}

// Undo restores the board before the last move.
func (s *Session) Undo() bool {
	prev, ok := s.history.Undo(s.pegs)
	if !ok {
		return false
	}
	s.pegs = prev
	s.active = board.NoCell
	return true
}

// Redo replays the last undone move.
func (s *Session) Redo() bool {
	next, ok := s.history.Redo(s.pegs)
	if !ok {
		return false
	}
	s.pegs = next
	s.active = board.NoCell
	return true
}

// Reset returns to the starting board and forgets all history. It is
// always legal; the result reports whether the board or either history
// stack changed.
func (s *Session) Reset() bool {
	changed := s.pegs != s.initial || s.history.CanUndo() || s.history.CanRedo()
	s.pegs = s.initial
	s.active = board.NoCell
	s.history.Clear()
	return changed
}

// Status reports whether the game can continue.
func (s *Session) Status() Status {
	if s.pegs == s.geo.GoalMask() {
		return StatusSolved
	}
	if s.InSetup() || s.geo.HasMoves(s.pegs) {
		return StatusPlaying
	}
	return StatusStuck
}

// Hints returns the hint cells for the current board and selection. The
// set is empty unless show is true, and always empty on the starting board.
func (s *Session) Hints(o hint.Oracle, show bool) board.Bitboard {
	if s.InSetup() {
		return board.Empty
	}
	return hint.Compute(s.geo, o, s.pegs, s.active, show)
}
