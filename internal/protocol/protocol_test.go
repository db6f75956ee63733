package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/solver"
)

func run(t *testing.T, layout, script string) []string {
	t.Helper()
	var out bytes.Buffer
	p, err := New(strings.NewReader(script), &out, Options{Layout: layout, HistorySize: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestUnknownLayout(t *testing.T) {
	_, err := New(strings.NewReader(""), &bytes.Buffer{}, Options{Layout: "hexagon"})
	if !errors.Is(err, board.ErrUnknownLayout) {
		t.Errorf("err = %v", err)
	}
}

func TestCommands(t *testing.T) {
	lines := run(t, "diamond", strings.Join([]string{
		"isready",
		"move 0 6",  // setup: illegal
		"remove 6",  // ok
		"remove 0",  // illegal, already in progress
		"move 0-6",  // ok, jumps over 2
		"move 0 6",  // illegal, 0 is now empty
		"undo",      // ok
		"redo",      // ok
		"redo",      // illegal
		"select 12", // ok
		"select -",  // ok
		"bogus",
		"hints off",
		"hint",
		"hints",
		"status",
		"quit",
		"undo", // never read
	}, "\n"))

	want := []string{
		"readyok",
		"illegal",
		"ok",
		"illegal",
		"ok",
		"illegal",
		"ok",
		"ok",
		"illegal",
		"ok",
		"ok",
		"unknown command: bogus",
		"hints off",
		"hints off",
		"hints off",
		"layout diamond phase in-progress status playing pegs 11 moves 2 undo 2 redo 0 active -",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestResetAndClick(t *testing.T) {
	lines := run(t, "diamond", "reset\nclick 6\nclick 0\nclick 6\nreset\nstatus\n")
	want := []string{
		"ok",
		"ok",
		"ok",
		"ok",
		"ok",
		"layout diamond phase setup status playing pegs 13 moves 0 undo 0 redo 0 active -",
	}
	for i := range want {
		if i >= len(lines) || lines[i] != want[i] {
			t.Fatalf("output:\n%s\nwant line %d = %q", strings.Join(lines, "\n"), i, want[i])
		}
	}
}

func TestHintMatchesEngine(t *testing.T) {
	lines := run(t, "diamond", "remove 6\nhint\nsolvable\n")
	geo, _ := board.Layout("diamond")
	e := solver.Shared(geo)
	state := geo.Full().Clear(6)

	if lines[0] != "ok" {
		t.Fatalf("remove failed: %v", lines)
	}
	if !strings.HasPrefix(lines[1], "hint sources: ") {
		t.Fatalf("hint line = %q", lines[1])
	}
	if want := fmt.Sprintf("solvable %t", e.IsSolvable(state)); lines[2] != want {
		t.Errorf("solvable line = %q, want %q", lines[2], want)
	}
}

func TestLayoutSwitchCallsHook(t *testing.T) {
	var seen []string
	var out bytes.Buffer
	p, err := New(strings.NewReader("layout arrow\nlayout nope\n"), &out, Options{
		Layout:   "diamond",
		OnLayout: func(layout string, e *solver.Engine) { seen = append(seen, layout) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 2 || seen[0] != "diamond" || seen[1] != "arrow" {
		t.Errorf("hook saw %v", seen)
	}
	if p.Layout() != "arrow" {
		t.Errorf("layout = %q", p.Layout())
	}
	if !strings.HasPrefix(out.String(), "layout arrow cells 25") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "unknown layout") {
		t.Errorf("missing error for bad layout: %q", out.String())
	}
}

func TestMovesAndDisplay(t *testing.T) {
	lines := run(t, "diamond", "moves\nremove 6\nmoves\nselect 0\nd\n")
	if lines[0] != "moves: remove any peg" {
		t.Errorf("setup moves = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "moves: ") || !strings.Contains(lines[2], "0-6") {
		t.Errorf("moves = %q", lines[2])
	}
	// Board follows "ok" from select: row 0 holds the marked peg.
	if got := lines[4]; got != "  @" {
		t.Errorf("first board row = %q", got)
	}
}

func TestResetClearsRedoAfterUndoToSetup(t *testing.T) {
	lines := run(t, "diamond", "remove 6\nundo\nreset\nstatus\nredo\n")
	want := []string{
		"ok",
		"ok",
		"ok",
		"layout diamond phase setup status playing pegs 13 moves 0 undo 0 redo 0 active -",
		"illegal",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
