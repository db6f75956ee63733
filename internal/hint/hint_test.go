package hint

import (
	"context"
	"testing"
	"time"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/solver"
)

// setOracle reports a fixed set of states as solvable.
type setOracle map[board.Bitboard]bool

func (o setOracle) IsSolvable(s board.Bitboard) bool { return o[s] }

func TestComputeRow(t *testing.T) {
	g := board.MustParseTemplate([]string{"..,"})
	e := solver.NewEngine(g)

	tests := []struct {
		name   string
		state  board.Bitboard
		active board.Cell
		show   bool
		want   board.Bitboard
	}{
		{"hidden", 0b011, board.NoCell, false, 0},
		{"hidden with active", 0b011, 0, false, 0},
		{"source", 0b011, board.NoCell, true, 0b001},
		{"destination", 0b011, 0, true, 0b100},
		{"active without moves", 0b011, 1, true, 0},
		{"active hole", 0b011, 2, true, 0},
		{"only losing move", 0b110, board.NoCell, true, 0},
		{"losing destination", 0b110, 2, true, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compute(g, e, tc.state, tc.active, tc.show); got != tc.want {
				t.Errorf("Compute = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComputeUsesOracle(t *testing.T) {
	g, _ := board.Layout("english")
	state := g.Full().Clear(g.Goal())

	// Only the jump from the top (cell 4) keeps the board solvable.
	fromTop, ok := g.TryJump(state, 4, g.Goal())
	if !ok {
		t.Fatal("jump 4 -> center should be legal")
	}
	o := setOracle{fromTop: true}

	if got := Compute(g, o, state, board.NoCell, true); got != board.CellBB(4) {
		t.Errorf("sources = %v, want {4}", got)
	}
	if got := Compute(g, o, state, 4, true); got != board.CellBB(g.Goal()) {
		t.Errorf("destinations of 4 = %v, want {%d}", got, g.Goal())
	}
	if got := Compute(g, o, state, 14, true); got != 0 {
		t.Errorf("destinations of 14 = %v, want none", got)
	}
}

func TestWorker(t *testing.T) {
	g := board.MustParseTemplate([]string{"..,"})
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(ctx, solver.NewEngine(g))

	w.Submit(Request{Seq: 1, State: 0b110, Active: board.NoCell})
	w.Submit(Request{Seq: 2, State: 0b011, Active: board.NoCell})

	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-w.Results():
			if res.Seq != 2 {
				// The first request may have been picked up before it was replaced.
				continue
			}
			if res.Hints != 0b001 || !res.Solvable {
				t.Errorf("result = %+v", res)
			}
			cancel()
			select {
			case <-w.Done():
			case <-time.After(5 * time.Second):
				t.Fatal("worker did not stop")
			}
			return
		case <-deadline:
			t.Fatal("no result from worker")
		}
	}
}

func TestStartWorkerSetupRunsFirst(t *testing.T) {
	g := board.MustParseTemplate([]string{"..,"})
	warm := solver.NewEngine(g)
	warm.IsSolvable(0b011)
	snap := warm.Snapshot()

	loaded := 0
	w := StartWorker(context.Background(), solver.NewEngine(g), func(e *solver.Engine) {
		loaded, _ = e.Load(snap)
	})
	defer w.Stop(nil)

	w.Submit(Request{Seq: 1, State: 0b011, Active: board.NoCell})
	select {
	case res := <-w.Results():
		if loaded == 0 {
			t.Error("setup did not merge the snapshot before the first request")
		}
		if res.Entries < loaded {
			t.Errorf("Entries = %d, loaded %d", res.Entries, loaded)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no result from worker")
	}
}

func TestStopDoesNotWaitForBusyWorker(t *testing.T) {
	g := board.MustParseTemplate([]string{"..,"})
	engine := solver.NewEngine(g)

	// The setup step stands in for a long search holding the engine.
	release := make(chan struct{})
	w := StartWorker(context.Background(), engine, func(*solver.Engine) { <-release })
	w.Submit(Request{Seq: 1, State: 0b011, Active: board.NoCell})

	var got *solver.Engine
	stopped := make(chan (<-chan struct{}), 1)
	go func() {
		stopped <- w.Stop(func(e *solver.Engine) { got = e })
	}()

	var finished <-chan struct{}
	select {
	case finished = <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a busy worker")
	}
	select {
	case <-finished:
		t.Fatal("then ran before the worker exited")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after the search ended")
	}
	if got != engine {
		t.Error("then did not receive the worker's engine")
	}
	select {
	case <-w.Done():
	default:
		t.Error("Done not closed after Stop finished")
	}
}
