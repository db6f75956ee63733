package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/hailam/pegplay/internal/board"
)

func rowGeometry(t *testing.T) *board.Geometry {
	t.Helper()
	g, err := board.ParseTemplate([]string{"..,"})
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	return g
}

func TestSinglePegSolvableOnlyAtGoal(t *testing.T) {
	for _, name := range board.Layouts() {
		g, err := board.Layout(name)
		if err != nil {
			t.Fatalf("Layout(%s): %v", name, err)
		}
		e := NewEngine(g)
		for i := 0; i < g.NumCells(); i++ {
			c := board.Cell(i)
			got := e.IsSolvable(board.CellBB(c))
			want := c == g.Goal()
			if got != want {
				t.Errorf("%s: IsSolvable({%d}) = %v, want %v", name, c, got, want)
			}
		}
	}
}

func TestRowBoard(t *testing.T) {
	g := rowGeometry(t)
	e := NewEngine(g)

	tests := []struct {
		name  string
		state board.Bitboard
		want  bool
	}{
		{"jump onto goal", 0b011, true},
		{"jump away from goal", 0b110, false},
		{"goal", 0b100, true},
		{"lone peg off goal", 0b001, false},
		{"stuck pair", 0b101, false},
		{"full board stuck", 0b111, false},
		{"empty", 0, false},
		{"bit outside board", 0b1000, false},
		{"mixed outside board", 0b1011, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.IsSolvable(tc.state); got != tc.want {
				t.Errorf("IsSolvable(%03b) = %v, want %v", tc.state, got, tc.want)
			}
		})
	}
}

func TestMemoizationTransparent(t *testing.T) {
	g, _ := board.Layout("diamond")

	// Answers from a cold engine for every state with one hole...
	cold := make(map[board.Bitboard]bool)
	for i := 0; i < g.NumCells(); i++ {
		state := g.Full().Clear(board.Cell(i))
		cold[state] = NewEngine(g).IsSolvable(state)
	}

	// ...must match a warm engine queried in a different order, twice.
	warm := NewEngine(g)
	for round := 0; round < 2; round++ {
		for i := g.NumCells() - 1; i >= 0; i-- {
			state := g.Full().Clear(board.Cell(i))
			if got := warm.IsSolvable(state); got != cold[state] {
				t.Errorf("round %d: IsSolvable(%v) = %v, cold engine said %v", round, state, got, cold[state])
			}
		}
	}
}

func TestSuccessorConsistency(t *testing.T) {
	g, _ := board.Layout("diamond")
	e := NewEngine(g)
	state := g.Full().Clear(g.Goal())

	// A state is solvable iff one of its successors is.
	var walk func(s board.Bitboard, depth int)
	walk = func(s board.Bitboard, depth int) {
		if depth == 0 || s.PopCount() == 1 {
			return
		}
		found := false
		for _, next := range e.Successors(s) {
			if next.PopCount() != s.PopCount()-1 {
				t.Fatalf("successor %v of %v does not remove exactly one peg", next, s)
			}
			if e.IsSolvable(next) {
				found = true
			}
			walk(next, depth-1)
		}
		if got := e.IsSolvable(s); got != found {
			t.Errorf("IsSolvable(%v) = %v, successors say %v", s, got, found)
		}
	}
	walk(state, 3)
}

func TestArrowSolvable(t *testing.T) {
	g, _ := board.Layout("arrow")
	e := NewEngine(g)
	// The offline solver for this board finds a solution with cell 0 empty.
	if !e.IsSolvable(g.Full().Clear(0)) {
		t.Error("arrow board with cell 0 removed should be solvable")
	}
	if e.IsSolvable(g.Full()) {
		t.Error("full board has no moves and cannot be solvable")
	}
}

func TestEnglishCenterSolvable(t *testing.T) {
	if testing.Short() {
		t.Skip("cold search over the 33-hole board")
	}
	g, _ := board.Layout("english")
	e := NewEngine(g)
	if !e.IsSolvable(g.Full().Clear(g.Goal())) {
		t.Fatal("classic board with the center removed should be solvable")
	}
	t.Logf("memo entries: %d", e.Stats().Entries)
}

func TestStats(t *testing.T) {
	g := rowGeometry(t)
	e := NewEngine(g)
	if s := e.Stats(); s.Entries != 1 {
		t.Errorf("fresh engine has %d entries, want 1 (goal seed)", s.Entries)
	}
	e.IsSolvable(0b011)
	before := e.Stats()
	e.IsSolvable(0b011)
	after := e.Stats()
	if after.Hits != before.Hits+1 {
		t.Errorf("repeat query did not hit the memo: %+v -> %+v", before, after)
	}
	if after.HitRate <= 0 {
		t.Errorf("HitRate = %f", after.HitRate)
	}
	if solvable, known := e.Known(0b011); !known || !solvable {
		t.Errorf("Known(011) = %v, %v", solvable, known)
	}
	if _, known := e.Known(0b110); known {
		t.Error("Known(110) before query")
	}
}

func TestSnapshotLoad(t *testing.T) {
	g, _ := board.Layout("diamond")
	src := NewEngine(g)
	src.IsSolvable(g.Full().Clear(g.Goal()))
	snap := src.Snapshot()
	if snap.Len() != src.Stats().Entries {
		t.Fatalf("snapshot has %d states, engine %d", snap.Len(), src.Stats().Entries)
	}

	dst := NewEngine(g)
	added, err := dst.Load(snap)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if added != snap.Len()-1 { // goal seed already present
		t.Errorf("added %d, want %d", added, snap.Len()-1)
	}
	for _, s := range snap.Solvable {
		if ok, known := dst.Known(s); !known || !ok {
			t.Errorf("state %v lost as solvable", s)
		}
	}
	for _, s := range snap.Unsolvable {
		if ok, known := dst.Known(s); !known || ok {
			t.Errorf("state %v lost as unsolvable", s)
		}
	}

	other := NewEngine(rowGeometry(t))
	if _, err := other.Load(snap); !errors.Is(err, ErrFingerprintMismatch) {
		t.Errorf("Load into other geometry: err = %v", err)
	}
}

func TestCensus(t *testing.T) {
	e := NewEngine(rowGeometry(t))
	solvable, unsolvable, err := e.Census(context.Background())
	if err != nil {
		t.Fatalf("Census: %v", err)
	}
	if solvable != 2 || unsolvable != 5 {
		t.Errorf("Census = %d/%d, want 2/5", solvable, unsolvable)
	}

	g, _ := board.Layout("english")
	if _, _, err := NewEngine(g).Census(context.Background()); !errors.Is(err, ErrBoardTooLarge) {
		t.Errorf("Census on 33 cells: err = %v", err)
	}
}

func TestShared(t *testing.T) {
	a, _ := board.Layout("diamond")
	b := board.MustParseTemplate(a.Template())
	if Shared(a) != Shared(b) {
		t.Error("geometries with the same template should share an engine")
	}
	if Shared(a) == Shared(rowGeometry(t)) {
		t.Error("different geometries share an engine")
	}
}
