package game

import (
	"errors"
	"testing"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/solver"
)

func newEnglish(t *testing.T) *Session {
	t.Helper()
	geo, err := board.Layout("english")
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return NewSession(geo, DefaultHistorySize)
}

func TestNewRejectsBadTemplate(t *testing.T) {
	if _, err := New([]string{"...", ".."}); !errors.Is(err, board.ErrInvalidGeometry) {
		t.Errorf("New(ragged) err = %v", err)
	}
	s, err := New([]string{"..,"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Goal() != 2 || s.State() != 0b111 {
		t.Errorf("goal=%d state=%v", s.Goal(), s.State())
	}
}

func TestSetupToInProgress(t *testing.T) {
	s := newEnglish(t)
	center := s.Goal()

	if !s.InSetup() || s.CanUndo() || s.CanRedo() || s.CanReset() {
		t.Fatal("fresh session should be in setup with empty history")
	}
	if s.Move(4, center) {
		t.Error("Move allowed during setup")
	}
	if s.SetActive(4) {
		t.Error("SetActive allowed during setup")
	}
	if !s.RemovePeg(center) {
		t.Fatal("RemovePeg(center) failed")
	}
	if s.InSetup() || s.Phase() != InProgress {
		t.Error("session still in setup after removing a peg")
	}
	if s.PegAt(center) {
		t.Error("center still pegged")
	}
	if !s.CanUndo() || s.CanRedo() || !s.CanReset() {
		t.Error("history flags wrong after first move")
	}
	if s.RemovePeg(0) {
		t.Error("second RemovePeg allowed in progress")
	}
	if s.MovesMade() != 1 || s.PegCount() != 32 {
		t.Errorf("MovesMade=%d PegCount=%d", s.MovesMade(), s.PegCount())
	}
}

func TestIllegalMovesAreNoOps(t *testing.T) {
	s := newEnglish(t)
	s.RemovePeg(s.Goal())
	before := s.State()

	tests := []struct {
		name     string
		src, dst board.Cell
	}{
		{"no middle", 0, s.Goal()},
		{"destination occupied", 0, 8},
		{"source empty", s.Goal(), 4},
		{"off board", 4, 99},
		{"no cell", board.NoCell, s.Goal()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if s.Move(tc.src, tc.dst) {
				t.Fatalf("Move(%d,%d) succeeded", tc.src, tc.dst)
			}
			if s.State() != before || s.MovesMade() != 1 {
				t.Fatal("illegal move changed the session")
			}
		})
	}
}

func TestUndoRedo(t *testing.T) {
	s := newEnglish(t)
	if s.Undo() || s.Redo() {
		t.Fatal("undo/redo on empty history should be no-ops")
	}

	s.RemovePeg(s.Goal())
	afterRemove := s.State()
	if !s.Move(4, s.Goal()) {
		t.Fatal("Move(4, center) failed")
	}
	afterMove := s.State()

	s.SetActive(28)
	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if s.State() != afterRemove {
		t.Errorf("undo restored %v, want %v", s.State(), afterRemove)
	}
	if s.Active() != board.NoCell {
		t.Error("undo kept the selection")
	}
	if !s.CanRedo() {
		t.Fatal("CanRedo false after undo")
	}
	if !s.Redo() || s.State() != afterMove {
		t.Errorf("redo restored %v, want %v", s.State(), afterMove)
	}

	// A new move after undo drops the redo branch.
	s.Undo()
	if !s.Move(28, s.Goal()) {
		t.Fatal("Move(28, center) failed")
	}
	if s.CanRedo() {
		t.Error("redo survived a new move")
	}

	// Undoing everything returns to setup.
	s.Undo()
	s.Undo()
	if !s.InSetup() || s.CanUndo() {
		t.Error("undoing all moves should return to setup")
	}
	if s.RedoLen() != 2 {
		t.Errorf("redo depth %d, want 2", s.RedoLen())
	}
}

func TestReset(t *testing.T) {
	s := newEnglish(t)
	s.RemovePeg(s.Goal())
	s.Move(4, s.Goal())
	s.Undo()

	s.Reset()
	if s.State() != s.Initial() || !s.InSetup() {
		t.Errorf("reset state %v", s.State())
	}
	if s.CanUndo() || s.CanRedo() || s.CanReset() {
		t.Error("reset left history behind")
	}
	if s.Active() != board.NoCell {
		t.Error("reset kept the selection")
	}
}

func TestResetAlwaysClearsHistory(t *testing.T) {
	tests := []struct {
		name    string
		play    func(s *Session)
		changed bool
	}{
		{"fresh board", func(s *Session) {}, false},
		{"undo back to setup", func(s *Session) {
			s.RemovePeg(s.Goal())
			s.Undo()
		}, true},
		{"undo first jump", func(s *Session) {
			s.RemovePeg(s.Goal())
			s.Move(4, s.Goal())
			s.Undo()
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newEnglish(t)
			tc.play(s)
			if got := s.Reset(); got != tc.changed {
				t.Errorf("Reset() = %v, want %v", got, tc.changed)
			}
			if s.State() != s.Initial() || s.CanUndo() || s.CanRedo() {
				t.Errorf("after reset: state=%v undo=%v redo=%v", s.State(), s.CanUndo(), s.CanRedo())
			}
		})
	}
}

func TestClick(t *testing.T) {
	s := newEnglish(t)
	center := s.Goal()

	if !s.Click(center) {
		t.Fatal("first click should remove the peg")
	}
	if s.Click(center) {
		t.Error("click on a hole without selection should do nothing")
	}
	if !s.Click(4) || s.Active() != 4 {
		t.Fatal("click on a peg should select it")
	}
	if got := s.Targets(); got != board.CellBB(center) {
		t.Errorf("Targets = %v, want {%d}", got, center)
	}
	if !s.Click(4) || s.Active() != board.NoCell {
		t.Fatal("second click on the same peg should deselect it")
	}
	s.Click(4)
	if !s.Click(center) {
		t.Fatal("click on target should jump")
	}
	if s.PegAt(4) || !s.PegAt(center) || s.MovesMade() != 2 {
		t.Errorf("jump not applied: %v", s.State())
	}
	if s.Click(99) {
		t.Error("click off the board should do nothing")
	}
}

func TestStatus(t *testing.T) {
	win, _ := New([]string{"..,"})
	if win.Status() != StatusPlaying {
		t.Errorf("setup status = %v", win.Status())
	}
	win.RemovePeg(2)
	win.Move(0, 2)
	if win.Status() != StatusSolved {
		t.Errorf("status = %v, want solved", win.Status())
	}

	lose, _ := New([]string{"..,"})
	lose.RemovePeg(0)
	lose.Move(2, 0)
	if lose.Status() != StatusStuck {
		t.Errorf("status = %v, want stuck", lose.Status())
	}
}

func TestHintsHidden(t *testing.T) {
	s, _ := New([]string{"..,"})
	e := solver.NewEngine(s.Geometry())
	if got := s.Hints(e, true); got != 0 {
		t.Errorf("setup hints = %v", got)
	}
	s.RemovePeg(2)
	if got := s.Hints(e, false); got != 0 {
		t.Errorf("hidden hints = %v", got)
	}
	if got := s.Hints(e, true); got != board.CellBB(0) {
		t.Errorf("source hints = %v, want {0}", got)
	}
	s.SetActive(0)
	if got := s.Hints(e, true); got != board.CellBB(2) {
		t.Errorf("destination hints = %v, want {2}", got)
	}
	if got := s.Hints(e, false); got != 0 {
		t.Errorf("hidden destination hints = %v", got)
	}
}

// TestClassicBoardScenario runs the first cold search of the 33-hole board,
// which takes around a minute and a half. Run with -short to skip it.
func TestClassicBoardScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("cold search over the 33-hole board")
	}
	s := newEnglish(t)
	e := solver.Shared(s.Geometry())
	center := s.Goal()

	if !s.RemovePeg(center) {
		t.Fatal("RemovePeg(center) failed")
	}
	if !e.IsSolvable(s.State()) {
		t.Fatal("classic board with the center removed should be solvable")
	}

	// Every jump into the center is a hint exactly when it stays solvable.
	for _, src := range []board.Cell{4, 14, 18, 28} {
		if !s.SetActive(src) {
			t.Fatalf("SetActive(%d) failed", src)
		}
		next, ok := s.Geometry().TryJump(s.State(), src, center)
		if !ok {
			t.Fatalf("jump %d -> center not legal", src)
		}
		hints := s.Hints(e, true)
		if hints.IsSet(center) != e.IsSolvable(next) {
			t.Errorf("peg %d: hint on center = %v, solvable = %v", src, hints.IsSet(center), e.IsSolvable(next))
		}
		if !hints.IsSet(center) {
			t.Errorf("peg %d: jumping into the center should keep the board solvable", src)
		}
	}

	s.ClearActive()
	sources := s.Hints(e, true)
	if sources != board.CellBB(4)|board.CellBB(14)|board.CellBB(18)|board.CellBB(28) {
		t.Errorf("source hints = %v", sources)
	}
}

func TestHistoryBound(t *testing.T) {
	h := NewHistory[int](2)
	h.Commit(1)
	h.Commit(2)
	h.Commit(3)
	if h.UndoLen() != 2 {
		t.Fatalf("UndoLen = %d, want 2", h.UndoLen())
	}
	v, ok := h.Undo(4)
	if !ok || v != 3 {
		t.Errorf("Undo = %d, %v", v, ok)
	}
	v, ok = h.Undo(3)
	if !ok || v != 2 {
		t.Errorf("Undo = %d, %v", v, ok)
	}
	if _, ok := h.Undo(2); ok {
		t.Error("oldest snapshot should have been evicted")
	}
	if h.RedoLen() != 2 {
		t.Errorf("RedoLen = %d", h.RedoLen())
	}
	v, ok = h.Redo(2)
	if !ok || v != 3 {
		t.Errorf("Redo = %d, %v", v, ok)
	}
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear left snapshots")
	}
}
