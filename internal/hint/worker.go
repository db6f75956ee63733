package hint

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/solver"
)

// Request asks the worker for the hints of a state.
type Request struct {
	Seq    uint64 // caller-chosen sequence number, echoed in the result
	State  board.Bitboard
	Active board.Cell
}

// Result carries the answer to a Request.
type Result struct {
	Request
	Hints    board.Bitboard
	Solvable bool
	Entries  int // memo size once the answer was known
	Took     time.Duration
}

// Worker computes hints on its own goroutine so a cold search never blocks
// the caller. The worker owns its engine: all solvability queries go
// through it, and answers come back over the Results channel. Until a
// result arrives the caller should show no hints.
type Worker struct {
	geo     *board.Geometry
	engine  *solver.Engine
	cancel  context.CancelFunc
	reqs    chan Request
	results chan Result
	done    chan struct{}
}

// NewWorker starts a worker for the engine. It stops when ctx is cancelled
// or Stop is called.
func NewWorker(ctx context.Context, engine *solver.Engine) *Worker {
	return StartWorker(ctx, engine, nil)
}

// StartWorker is NewWorker with a setup step that runs on the worker
// goroutine before the first request, such as merging a saved memo.
// Requests submitted meanwhile wait in the queue.
func StartWorker(ctx context.Context, engine *solver.Engine, setup func(*solver.Engine)) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	w := &Worker{
		geo:     engine.Geometry(),
		engine:  engine,
		cancel:  cancel,
		reqs:    make(chan Request, 1),
		results: make(chan Result, 1),
		done:    make(chan struct{}),
	}
	go w.run(ctx, setup)
	return w
}

// Stop cancels the worker without waiting for a search in flight. Once the
// worker has exited, then (if non-nil) runs on the engine from another
// goroutine. The returned channel is closed after that.
func (w *Worker) Stop(then func(*solver.Engine)) <-chan struct{} {
	w.cancel()
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		<-w.done
		if then != nil {
			then(w.engine)
		}
	}()
	return finished
}

// Submit queues a request without blocking. A request still waiting in the
// queue is replaced, so only the latest state gets computed.
func (w *Worker) Submit(req Request) {
	for {
		select {
		case w.reqs <- req:
			return
		default:
		}
		select {
		case <-w.reqs:
		default:
		}
	}
}

// Results returns the channel of completed requests.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Done is closed once the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Engine returns the engine owned by the worker.
func (w *Worker) Engine() *solver.Engine {
	return w.engine
}

func (w *Worker) run(ctx context.Context, setup func(*solver.Engine)) {
	defer close(w.done)
	defer w.cancel()
	if setup != nil {
		setup(w.engine)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.reqs:
			start := time.Now()
			res := Result{
				Request:  req,
				Hints:    Compute(w.geo, w.engine, req.State, req.Active, true),
				Solvable: w.engine.IsSolvable(req.State),
			}
			res.Took = time.Since(start)
			res.Entries = w.engine.Stats().Entries
			if res.Took > 250*time.Millisecond {
				log.Debug().Uint64("seq", req.Seq).Dur("took", res.Took).Msg("slow hint computation")
			}

			// Drop a stale unread result in favour of the new one.
			select {
			case <-w.results:
			default:
			}
			select {
			case w.results <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}
