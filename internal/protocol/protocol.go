// Package protocol implements a line-oriented text protocol for playing
// peg solitaire from a terminal or a script.
//
// One command per line:
//
//	layout <name>          start a new game on a built-in layout
//	layouts                list the built-in layouts
//	d                      print the board
//	moves                  list legal jumps
//	remove <cell>          remove the first peg (setup only)
//	move <from> <to>       jump a peg
//	select <cell|->        select or clear the source peg
//	click <cell>           click semantics of the GUI
//	undo | redo | reset
//	hints [on|off]         toggle hint display
//	hint                   print the hint cells
//	solvable               print whether the board can still be solved
//	status | stats
//	isready                answers "readyok"
//	quit
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/game"
	"github.com/hailam/pegplay/internal/solver"
)

// Protocol runs the command loop over one session.
type Protocol struct {
	in  io.Reader
	out io.Writer

	opts      Options
	layout    string
	session   *game.Session
	engine    *solver.Engine
	showHints bool
}

// Options configures a Protocol.
type Options struct {
	Layout      string
	HistorySize int

	// OnLayout, when set, is called with every engine the protocol
	// switches to, before any query runs on it.
	OnLayout func(layout string, e *solver.Engine)
}

// New creates a protocol handler reading commands from in.
func New(in io.Reader, out io.Writer, opts Options) (*Protocol, error) {
	if opts.Layout == "" {
		opts.Layout = board.DefaultLayout
	}
	p := &Protocol{in: in, out: out, opts: opts, showHints: true}
	if err := p.setLayout(opts.Layout); err != nil {
		return nil, err
	}
	return p, nil
}

// Session returns the current session.
func (p *Protocol) Session() *game.Session {
	return p.session
}

// Engine returns the engine of the current layout.
func (p *Protocol) Engine() *solver.Engine {
	return p.engine
}

// Layout returns the name of the current layout.
func (p *Protocol) Layout() string {
	return p.layout
}

func (p *Protocol) setLayout(name string) error {
	geo, err := board.Layout(name)
	if err != nil {
		return err
	}
	p.layout = strings.ToLower(strings.TrimSpace(name))
	p.session = game.NewSession(geo, p.opts.HistorySize)
	p.engine = solver.Shared(geo)
	if p.opts.OnLayout != nil {
		p.opts.OnLayout(p.layout, p.engine)
	}
	return nil
}

// Run reads commands until quit or end of input.
func (p *Protocol) Run() error {
	scanner := bufio.NewScanner(p.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "isready":
			p.println("readyok")
		case "layout":
			p.handleLayout(args)
		case "layouts":
			p.println(strings.Join(board.Layouts(), " "))
		case "d":
			p.handleDisplay()
		case "moves":
			p.handleMoves()
		case "remove":
			p.withCell(args, p.session.RemovePeg)
		case "move":
			p.handleMove(args)
		case "select":
			p.handleSelect(args)
		case "click":
			p.withCell(args, p.session.Click)
		case "undo":
			p.result(p.session.Undo())
		case "redo":
			p.result(p.session.Redo())
		case "reset":
			// Always legal, even when nothing changes.
			p.session.Reset()
			p.result(true)
		case "hints":
			p.handleHintsToggle(args)
		case "hint":
			p.handleHint()
		case "solvable":
			p.handleSolvable()
		case "status":
			p.handleStatus()
		case "stats":
			p.handleStats()
		default:
			p.printf("unknown command: %s\n", cmd)
		}
	}
	return scanner.Err()
}

func (p *Protocol) println(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Protocol) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Protocol) result(ok bool) {
	if ok {
		p.println("ok")
	} else {
		p.println("illegal")
	}
}

func (p *Protocol) withCell(args []string, op func(board.Cell) bool) {
	if len(args) != 1 {
		p.println("usage: <command> <cell>")
		return
	}
	c, err := board.ParseCell(args[0])
	if err != nil {
		p.println(err.Error())
		return
	}
	p.result(op(c))
}

func (p *Protocol) handleLayout(args []string) {
	if len(args) != 1 {
		p.println("usage: layout <name>")
		return
	}
	if err := p.setLayout(args[0]); err != nil {
		p.println(err.Error())
		return
	}
	p.printf("layout %s cells %d goal %d\n", p.layout, p.session.Geometry().NumCells(), p.session.Goal())
}

func (p *Protocol) handleDisplay() {
	s := p.session
	marks := s.Targets()
	if s.Active() != board.NoCell {
		marks = marks.Set(s.Active())
	}
	p.println(s.Geometry().Render(s.State(), marks))
}

func (p *Protocol) handleMoves() {
	if p.session.InSetup() {
		p.println("moves: remove any peg")
		return
	}
	moves := p.session.Geometry().LegalMoves(p.session.State())
	if len(moves) == 0 {
		p.println("moves: none")
		return
	}
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	p.printf("moves: %s\n", strings.Join(strs, " "))
}

func (p *Protocol) handleMove(args []string) {
	if len(args) == 1 && strings.Contains(args[0], "-") && !strings.HasPrefix(args[0], "-") {
		args = strings.SplitN(args[0], "-", 2)
	}
	if len(args) != 2 {
		p.println("usage: move <from> <to>")
		return
	}
	from, err := board.ParseCell(args[0])
	if err != nil {
		p.println(err.Error())
		return
	}
	to, err := board.ParseCell(args[1])
	if err != nil {
		p.println(err.Error())
		return
	}
	p.result(p.session.Move(from, to))
}

func (p *Protocol) handleSelect(args []string) {
	if len(args) != 1 {
		p.println("usage: select <cell|->")
		return
	}
	c, err := board.ParseCell(args[0])
	if err != nil {
		p.println(err.Error())
		return
	}
	if c == board.NoCell {
		p.session.ClearActive()
		p.result(true)
		return
	}
	p.result(p.session.SetActive(c))
}

func (p *Protocol) handleHintsToggle(args []string) {
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			p.showHints = true
		case "off", "false", "0":
			p.showHints = false
		default:
			p.println("usage: hints [on|off]")
			return
		}
	}
	if p.showHints {
		p.println("hints on")
	} else {
		p.println("hints off")
	}
}

func (p *Protocol) handleHint() {
	if !p.showHints {
		p.println("hints off")
		return
	}
	start := time.Now()
	hints := p.session.Hints(p.engine, true)
	if took := time.Since(start); took > time.Second {
		log.Info().Dur("took", took).Str("layout", p.layout).Msg("hint search")
	}

	mode := "sources"
	if p.session.Active() != board.NoCell {
		mode = "destinations"
	}
	if hints == board.Empty {
		p.printf("hint %s: none\n", mode)
		return
	}
	cells := hints.Cells()
	strs := make([]string, len(cells))
	for i, c := range cells {
		strs[i] = c.String()
	}
	p.printf("hint %s: %s\n", mode, strings.Join(strs, " "))
}

func (p *Protocol) handleSolvable() {
	p.printf("solvable %t\n", p.engine.IsSolvable(p.session.State()))
}

func (p *Protocol) handleStatus() {
	s := p.session
	p.printf("layout %s phase %s status %s pegs %d moves %d undo %d redo %d active %s\n",
		p.layout, s.Phase(), s.Status(), s.PegCount(), s.MovesMade(), s.UndoLen(), s.RedoLen(), s.Active())
}

func (p *Protocol) handleStats() {
	st := p.engine.Stats()
	p.printf("memo %s entries probes %s hits %s hitrate %.1f%%\n",
		humanize.Comma(int64(st.Entries)), humanize.Comma(int64(st.Probes)), humanize.Comma(int64(st.Hits)), st.HitRate)
}
