package board

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		tmpl []string
	}{
		{"empty", nil},
		{"empty row", []string{""}},
		{"ragged", []string{"..,", ".."}},
		{"no cells", []string{"   ", "   "}},
		{"no goal", []string{"...", "..."}},
		{"two goals", []string{".,.", ".,."}},
		{"unknown symbol", []string{".x,"}},
		{"too many cells", []string{strings.Repeat(".", 64) + ","}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTemplate(tc.tmpl)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("error %v does not wrap ErrInvalidGeometry", err)
			}
		})
	}
}

func TestEnglishGeometry(t *testing.T) {
	g, err := Layout("english")
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if g.NumCells() != 33 {
		t.Fatalf("NumCells = %d, want 33", g.NumCells())
	}
	if g.Goal() != 16 {
		t.Errorf("Goal = %d, want 16", g.Goal())
	}
	if r, c := g.Coord(g.Goal()); r != 3 || c != 3 {
		t.Errorf("goal at (%d,%d), want (3,3)", r, c)
	}
	if g.Full().PopCount() != 33 {
		t.Errorf("Full has %d cells", g.Full().PopCount())
	}

	// Top-left cell of the cross has no up/left neighbors.
	if n := g.Neighbor(0, Up); n != NoCell {
		t.Errorf("Neighbor(0, Up) = %d, want NoCell", n)
	}
	if n := g.Neighbor(0, Right); n != 1 {
		t.Errorf("Neighbor(0, Right) = %d, want 1", n)
	}
	if n := g.Neighbor(0, Down); n != 3 {
		t.Errorf("Neighbor(0, Down) = %d, want 3", n)
	}
}

func TestAdjacencySymmetry(t *testing.T) {
	for _, name := range Layouts() {
		g, err := Layout(name)
		if err != nil {
			t.Fatalf("Layout(%s): %v", name, err)
		}
		for i := 0; i < g.NumCells(); i++ {
			for _, d := range Directions {
				k := g.Neighbor(Cell(i), d)
				if k == NoCell {
					continue
				}
				if back := g.Neighbor(k, d.Opposite()); back != Cell(i) {
					t.Errorf("%s: neighbor(%d,%v)=%d but neighbor(%d,%v)=%d",
						name, i, d, k, k, d.Opposite(), back)
				}
			}
		}
	}
}

func TestMiddleTable(t *testing.T) {
	g := MustParseTemplate([]string{
		"...",
		".,.",
		"...",
	})

	tests := []struct {
		src, dst, want Cell
	}{
		{0, 2, 1},
		{0, 6, 3},
		{0, 8, 4},
		{2, 6, 4},
		{8, 0, 4},
		{0, 1, NoCell},
		{0, 5, NoCell},
		{0, 7, NoCell},
		{4, 4, NoCell},
		{0, 99, NoCell},
	}
	for _, tc := range tests {
		if got := g.Middle(tc.src, tc.dst); got != tc.want {
			t.Errorf("Middle(%d,%d) = %d, want %d", tc.src, tc.dst, got, tc.want)
		}
	}
}

func TestTryMove(t *testing.T) {
	// Row of three cells, goal on the right.
	g := MustParseTemplate([]string{"..,"})
	full := g.Full()

	tests := []struct {
		name  string
		state Bitboard
		src   Cell
		dir   Direction
		want  Bitboard
		ok    bool
	}{
		{"jump right", CellBB(0) | CellBB(1), 0, Right, CellBB(2), true},
		{"jump left", CellBB(1) | CellBB(2), 2, Left, CellBB(0), true},
		{"no peg at source", CellBB(1), 0, Right, 0, false},
		{"nothing to jump", CellBB(0), 0, Right, 0, false},
		{"landing occupied", full, 0, Right, 0, false},
		{"off board", CellBB(0) | CellBB(1), 0, Left, 0, false},
		{"diagonal off board", CellBB(0) | CellBB(1), 0, DownRight, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := g.TryMove(tc.state, tc.src, tc.dir)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("state = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTryJumpMatchesTryMove(t *testing.T) {
	g, _ := Layout("arrow")
	state := g.Full().Clear(g.Goal())

	for i := 0; i < g.NumCells(); i++ {
		for _, d := range Directions {
			viaDir, okDir := g.TryMove(state, Cell(i), d)
			if !okDir {
				continue
			}
			k := g.Neighbor(Cell(i), d)
			j := g.Neighbor(k, d)
			viaDst, okDst := g.TryJump(state, Cell(i), j)
			if !okDst || viaDst != viaDir {
				t.Errorf("TryJump(%d,%d) = %v,%v; TryMove = %v", i, j, viaDst, okDst, viaDir)
			}
		}
	}

	if _, ok := g.TryJump(state, 0, 0); ok {
		t.Error("jump onto itself should fail")
	}
}

func TestMovesRemoveOnePeg(t *testing.T) {
	g, _ := Layout("english")
	state := g.Full().Clear(g.Goal())
	moves := g.LegalMoves(state)
	if len(moves) != 4 {
		t.Fatalf("expected 4 opening moves into the center, got %d: %v", len(moves), moves)
	}
	for _, m := range moves {
		if m.To != g.Goal() {
			t.Errorf("move %v does not land in the center", m)
		}
		next := m.Apply(state)
		if next.PopCount() != state.PopCount()-1 {
			t.Errorf("move %v: popcount %d", m, next.PopCount())
		}
	}
	if !g.HasMoves(state) {
		t.Error("HasMoves = false")
	}
	if g.HasMoves(g.GoalMask()) {
		t.Error("single peg should have no moves")
	}
}

func TestTargets(t *testing.T) {
	g, _ := Layout("english")
	state := g.Full().Clear(g.Goal())
	// Cell 4 sits two above the center.
	if got := g.Targets(state, 4); got != CellBB(g.Goal()) {
		t.Errorf("Targets(4) = %v, want {%d}", got, g.Goal())
	}
	if got := g.Targets(state, 0); got != 0 {
		t.Errorf("Targets(0) = %v, want empty", got)
	}
}

func TestFingerprint(t *testing.T) {
	a := MustParseTemplate([]string{"..,"})
	b := MustParseTemplate([]string{"..,"})
	c := MustParseTemplate([]string{",.."})
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("same template, different fingerprints")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different templates, same fingerprint")
	}
}

func TestRender(t *testing.T) {
	g := MustParseTemplate([]string{
		" . ",
		"., ",
	})
	got := g.Render(CellBB(0)|CellBB(1), CellBB(2))
	want := " o\no*\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	got = g.Render(0, 0)
	if got != " .\n.,\n" {
		t.Errorf("Render(empty) = %q", got)
	}
}

func TestBitboard(t *testing.T) {
	var b Bitboard
	b = b.Set(3).Set(40).Set(63)
	if b.PopCount() != 3 {
		t.Errorf("PopCount = %d", b.PopCount())
	}
	if b.LSB() != 3 {
		t.Errorf("LSB = %d", b.LSB())
	}
	cells := b.Cells()
	if len(cells) != 3 || cells[0] != 3 || cells[1] != 40 || cells[2] != 63 {
		t.Errorf("Cells = %v", cells)
	}
	if b.IsSet(NoCell) {
		t.Error("IsSet(NoCell) = true")
	}
	if b.IsSingle() || !CellBB(5).IsSingle() || Empty.IsSingle() {
		t.Error("IsSingle wrong")
	}
	if b.String() != "{3 40 63}" {
		t.Errorf("String = %s", b.String())
	}
}

func TestParseCell(t *testing.T) {
	if c, err := ParseCell("12"); err != nil || c != 12 {
		t.Errorf("ParseCell(12) = %d, %v", c, err)
	}
	if c, err := ParseCell("-"); err != nil || c != NoCell {
		t.Errorf("ParseCell(-) = %d, %v", c, err)
	}
	if _, err := ParseCell("x"); err == nil {
		t.Error("ParseCell(x) should fail")
	}
}

func TestUnknownLayout(t *testing.T) {
	if _, err := Layout("hexagon"); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("Layout(hexagon) err = %v, want ErrUnknownLayout", err)
	}
}
