package ui

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/game"
	"github.com/hailam/pegplay/internal/hint"
	"github.com/hailam/pegplay/internal/solver"
	"github.com/hailam/pegplay/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	PanelWidth   = ScreenWidth - BoardSize
)

// UIScale is the global HiDPI scale factor for all UI drawing.
// Set by Game.Layout() and used by widgets and modals.
var UIScale float64 = 1.0

// Options configures a Game.
type Options struct {
	Layout      string // overrides the saved layout when set
	HistorySize int
	DataDir     string // empty means the platform data directory
	PersistMemo bool   // load and save solver memos in storage
}

// Game implements ebiten.Game interface.
type Game struct {
	opts Options

	// Core game state
	layout  string
	session *game.Session
	engine  *solver.Engine

	// Background hint search. The worker owns the engine: memo loads and
	// saves run on it or after it, never on the frame path.
	worker      *hint.Worker
	seq         uint64
	lastReq     hint.Request
	result      *hint.Result
	memoEntries *atomic.Int64 // fresh per layout
	memoLoaded  map[uint64]bool
	memoSaves   sync.WaitGroup
	closed      atomic.Bool

	// Drag state: a press on a peg becomes a drag or a click on release
	pressed   bool
	pressCell board.Cell

	// Outcome tracking
	lastStatus game.Status
	startedAt  time.Time
	recorded   bool
	warned     bool

	// Storage
	storage *storage.Storage
	prefs   *storage.UserPreferences
	stats   *storage.GameStats

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager
	confirm  *ConfirmModal
	backdrop *Backdrop

	// HiDPI scaling
	scale float64
}

// NewGame creates a new peg solitaire game window.
func NewGame(opts Options) *Game {
	if opts.HistorySize <= 0 {
		opts.HistorySize = game.DefaultHistorySize
	}
	g := &Game{
		opts:       opts,
		input:      NewInputHandler(),
		memoLoaded: make(map[uint64]bool),
		pressCell:  board.NoCell,
		scale:      1.0,
	}

	var err error
	g.storage, err = storage.Open(opts.DataDir)
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable, progress will not be saved")
	}
	g.loadPreferences()

	layout := g.prefs.Layout
	if opts.Layout != "" {
		layout = opts.Layout
	}
	geo, err := board.Layout(layout)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to default layout")
		layout = board.DefaultLayout
		geo, _ = board.Layout(layout)
	}

	g.renderer = NewRenderer(BoardSize, geo)
	g.feedback = NewFeedbackManager(g.renderer.Theme())
	g.feedback.Audio().SetEnabled(g.prefs.SoundEnabled)
	g.confirm = NewConfirmModal()
	g.backdrop = NewBackdrop()

	g.setLayout(layout, geo)
	g.panel = NewPanel(g)
	return g
}

// loadPreferences loads user preferences and stats from storage.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	g.stats = storage.NewGameStats()
	if g.storage == nil {
		return
	}

	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		log.Warn().Err(err).Msg("load preferences")
	} else {
		g.prefs = prefs
	}
	if stats, err := g.storage.LoadStats(); err != nil {
		log.Warn().Err(err).Msg("load stats")
	} else {
		g.stats = stats
	}
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	g.prefs.Layout = g.layout
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Warn().Err(err).Msg("save preferences")
	}
}

// setLayout starts a fresh session on geo and a hint worker for its engine.
func (g *Game) setLayout(name string, geo *board.Geometry) {
	g.retireWorker()

	g.layout = name
	g.session = game.NewSession(geo, g.opts.HistorySize)
	g.engine = solver.Shared(geo)

	entries := new(atomic.Int64)
	g.memoEntries = entries
	load := g.opts.PersistMemo && g.storage != nil && !g.memoLoaded[geo.Fingerprint()]
	g.memoLoaded[geo.Fingerprint()] = true
	g.worker = hint.StartWorker(context.Background(), g.engine, func(e *solver.Engine) {
		if load {
			g.loadMemo(e, name)
		}
		entries.Store(int64(e.Stats().Entries))
	})
	g.resetTracking()

	g.renderer.SetGeometry(geo)
	log.Info().Str("layout", name).Int("cells", geo.NumCells()).Msg("new game")
}

// retireWorker stops the current worker and saves its engine's memo once
// any search in flight has finished.
func (g *Game) retireWorker() {
	if g.worker == nil {
		return
	}
	if !g.opts.PersistMemo || g.storage == nil {
		g.worker.Stop(nil)
		return
	}
	g.memoSaves.Add(1)
	g.worker.Stop(func(e *solver.Engine) {
		defer g.memoSaves.Done()
		g.saveMemo(e)
	})
}

// loadMemo merges the saved memo for e. It runs on the hint worker.
func (g *Game) loadMemo(e *solver.Engine, layout string) {
	snap, err := g.storage.LoadMemo(e.Geometry().Fingerprint())
	if err != nil {
		log.Warn().Err(err).Str("layout", layout).Msg("load solver memo")
		return
	}
	added, err := e.Load(snap)
	if err != nil {
		log.Warn().Err(err).Msg("merge solver memo")
		return
	}
	if added > 0 {
		log.Debug().Int("entries", added).Str("layout", layout).Msg("solver memo loaded")
	}
}

// saveMemo stores the memo of e. It runs after the engine's worker exits.
func (g *Game) saveMemo(e *solver.Engine) {
	if g.closed.Load() {
		return
	}
	snap := e.Snapshot()
	if snap.Len() == 0 {
		return
	}
	if err := g.storage.SaveMemo(snap); err != nil {
		log.Warn().Err(err).Msg("save solver memo")
	}
}

// resetTracking forgets hint results and outcome bookkeeping.
func (g *Game) resetTracking() {
	g.seq++
	g.lastReq = hint.Request{State: board.Empty, Active: board.NoCell}
	g.result = nil
	g.pressed = false
	g.pressCell = board.NoCell
	g.lastStatus = game.StatusPlaying
	g.startedAt = time.Time{}
	g.recorded = false
	g.warned = false
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	if g.confirm.IsVisible() {
		g.confirm.Update(g.input)
		g.updateCursor()
		return nil
	}

	if g.panel.HandleInput(g.input) {
		g.afterChange()
		g.updateCursor()
		return nil
	}

	g.handleShortcut(ReadShortcut())
	g.handleBoardInput()
	g.afterChange()

	g.requestHints()
	g.pollHints()

	g.updateCursor()
	return nil
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	hovered := false
	if g.confirm.IsVisible() {
		hovered = g.confirm.AnyButtonHovered()
	} else {
		hovered = g.panel.AnyButtonHovered()
		if !hovered {
			mx, my := g.input.MousePosition()
			if mx < BoardSize {
				c := g.renderer.ScreenToCell(mx, my)
				hovered = c != board.NoCell && (g.session.PegAt(c) || g.session.Targets().IsSet(c))
			}
		}
	}

	if hovered {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

func (g *Game) handleShortcut(s Shortcut) {
	switch s {
	case ShortcutUndo:
		g.UndoAction()
	case ShortcutRedo:
		g.RedoAction()
	case ShortcutReset:
		g.ResetAction()
	case ShortcutToggleHints:
		g.SetShowSolution(!g.prefs.ShowSolution)
	case ShortcutDeselect:
		g.session.ClearActive()
	}
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	mx, my := g.input.MousePosition()
	s := g.session

	if g.input.IsLeftJustPressed() && mx < BoardSize {
		c := g.renderer.ScreenToCell(mx, my)
		switch {
		case c == board.NoCell:
			s.ClearActive()
		case s.InSetup():
			if s.Click(c) {
				g.feedback.OnRemove(c)
			}
		case s.PegAt(c):
			// Decided on release: a drag jumps, a click toggles the selection.
			g.pressed = true
			g.pressCell = c
		default:
			g.clickHole(c)
		}
		return
	}

	if !g.pressed {
		return
	}

	if g.input.IsDragging() && s.Active() != g.pressCell {
		s.SetActive(g.pressCell)
	}

	if g.input.IsLeftJustReleased() {
		src := g.pressCell
		g.pressed = false
		g.pressCell = board.NoCell

		if !g.input.IsDragging() {
			if s.Click(src) && s.Active() == src {
				g.feedback.OnSelect()
			}
			return
		}
		dst := g.renderer.ScreenToCell(mx, my)
		if dst == board.NoCell || dst == src {
			return
		}
		g.tryMove(src, dst)
	}
}

// clickHole handles a click on an empty cell.
func (g *Game) clickHole(c board.Cell) {
	src := g.session.Active()
	if src == board.NoCell {
		return
	}
	g.tryMove(src, c)
}

func (g *Game) tryMove(src, dst board.Cell) {
	if g.session.Move(src, dst) {
		g.feedback.OnJump(board.Move{From: src, Over: g.session.Geometry().Middle(src, dst), To: dst})
		return
	}
	g.feedback.OnInvalidMove(src, dst, g.invalidReason(src, dst))
	g.session.SetActive(src)
}

// invalidReason explains why src cannot jump to dst.
func (g *Game) invalidReason(src, dst board.Cell) InvalidMoveReason {
	s := g.session
	geo := s.Geometry()
	switch {
	case s.InSetup():
		return ReasonSetupFirst
	case s.PegAt(dst):
		return ReasonTargetOccupied
	}
	over := geo.Middle(src, dst)
	if over == board.NoCell {
		return ReasonNotAJump
	}
	if !s.PegAt(over) {
		return ReasonNothingToJump
	}
	return ReasonUnknown
}

// afterChange reacts to the session reaching or leaving an end state.
func (g *Game) afterChange() {
	s := g.session
	if s.InSetup() {
		g.startedAt = time.Time{}
	} else if g.startedAt.IsZero() {
		g.startedAt = time.Now()
	}

	status := s.Status()
	if status == g.lastStatus {
		return
	}
	g.lastStatus = status

	switch status {
	case game.StatusSolved:
		g.feedback.OnSolved(s.MovesMade())
		g.recordOutcome(true)
	case game.StatusStuck:
		g.feedback.OnStuck(s.PegCount())
		g.recordOutcome(false)
	}
}

// recordOutcome stores the first finish of each game.
func (g *Game) recordOutcome(solved bool) {
	if g.recorded || g.storage == nil {
		return
	}
	g.recorded = true

	result := storage.GameResult{
		Layout:   g.layout,
		Solved:   solved,
		PegsLeft: g.session.PegCount(),
		Duration: time.Since(g.startedAt),
	}
	if err := g.storage.RecordGame(result); err != nil {
		log.Warn().Err(err).Msg("record game")
		return
	}
	if stats, err := g.storage.LoadStats(); err == nil {
		g.stats = stats
	}
	log.Info().Str("layout", result.Layout).Bool("solved", solved).Int("pegs", result.PegsLeft).
		Dur("took", result.Duration).Msg("game finished")
}

// requestHints submits the current board to the worker when it changed.
// The worker always answers with hints, so toggling "Show solution" on
// needs no new search.
func (g *Game) requestHints() {
	s := g.session
	if s.InSetup() {
		return
	}
	if g.lastReq.State == s.State() && g.lastReq.Active == s.Active() {
		return
	}
	g.seq++
	g.lastReq = hint.Request{Seq: g.seq, State: s.State(), Active: s.Active()}
	g.worker.Submit(g.lastReq)
}

// pollHints picks up a finished answer without blocking.
func (g *Game) pollHints() {
	select {
	case res := <-g.worker.Results():
		if res.Seq != g.seq {
			return
		}
		g.result = &res
		g.memoEntries.Store(int64(res.Entries))
		if !res.Solvable && !g.warned && g.prefs.ShowSolution && g.session.Status() == game.StatusPlaying {
			g.warned = true
			g.feedback.OnUnsolvable()
		}
		if res.Solvable {
			g.warned = false
		}
	default:
	}
}

// currentHints returns the hint cells for the board on screen, or Empty
// while the answer for it is still pending.
func (g *Game) currentHints() board.Bitboard {
	s := g.session
	if !g.prefs.ShowSolution || s.InSetup() || s.Status() != game.StatusPlaying || g.result == nil {
		return board.Empty
	}
	if g.result.State != s.State() || g.result.Active != s.Active() {
		return board.Empty
	}
	return g.result.Hints
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	screen.Fill(g.renderer.Theme().Background)

	s := g.session
	view := BoardView{
		State:   s.State(),
		Goal:    s.Goal(),
		Active:  s.Active(),
		Targets: s.Targets(),
		Hints:   g.currentHints(),
		Drag:    board.NoCell,
		Solved:  s.Status() == game.StatusSolved,
	}
	dragging := g.pressed && g.input.IsDragging()
	if dragging {
		view.Drag = g.pressCell
	}
	g.renderer.DrawBoard(screen, view, g.feedback.Effects())
	if dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPeg(screen, mx, my)
	}

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen)
	g.confirm.Draw(screen, g.backdrop)
}

// Layout returns the game's screen dimensions.
// Width is dynamic based on panel collapsed state.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}
	UIScale = g.scale

	if g.panel != nil && g.panel.Collapsed() {
		return int(float64(BoardSize+CollapsedWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
	}
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// ResetAction restores the starting board, asking first when configured.
func (g *Game) ResetAction() {
	if !g.session.CanReset() {
		return
	}
	if !g.prefs.ConfirmReset || g.session.Status() != game.StatusPlaying {
		g.doReset()
		return
	}
	g.confirm.Show("Reset board", "Start this layout again from the full board?", "Reset", func(dontAsk bool) {
		if dontAsk {
			g.SetConfirmReset(false)
		}
		g.doReset()
	})
}

func (g *Game) doReset() {
	g.session.Reset()
	g.resetTracking()
}

// UndoAction takes back the last move.
func (g *Game) UndoAction() {
	g.session.Undo()
}

// RedoAction replays the last undone move.
func (g *Game) RedoAction() {
	g.session.Redo()
}

// SetLayoutAction switches to another built-in layout.
func (g *Game) SetLayoutAction(name string) {
	if name == g.layout {
		return
	}
	geo, err := board.Layout(name)
	if err != nil {
		g.feedback.Info(err.Error())
		return
	}
	g.setLayout(name, geo)
	g.panel.SyncLayout(name)
	g.savePreferences()
}

// SetShowSolution toggles the hint overlay.
func (g *Game) SetShowSolution(on bool) {
	g.prefs.ShowSolution = on
	g.warned = false
	g.savePreferences()
}

// SetSoundEnabled toggles sound effects.
func (g *Game) SetSoundEnabled(on bool) {
	g.prefs.SoundEnabled = on
	g.feedback.Audio().SetEnabled(on)
	g.savePreferences()
}

// SetConfirmReset toggles the reset confirmation dialog.
func (g *Game) SetConfirmReset(on bool) {
	g.prefs.ConfirmReset = on
	g.savePreferences()
}

// Session returns the current session.
func (g *Game) Session() *game.Session {
	return g.session
}

// LayoutName returns the name of the current layout.
func (g *Game) LayoutName() string {
	return g.layout
}

// Prefs returns the user preferences.
func (g *Game) Prefs() *storage.UserPreferences {
	return g.prefs
}

// Stats returns the lifetime statistics.
func (g *Game) Stats() *storage.GameStats {
	return g.stats
}

// Solvable reports whether the board on screen can still be solved.
// known is false while the worker has not answered for this board.
func (g *Game) Solvable() (solvable, known bool) {
	if g.result == nil || g.result.State != g.session.State() {
		return false, false
	}
	return g.result.Solvable, true
}

// MemoEntries returns the memo size reported by the worker.
// The engine itself is not queried so drawing never waits on a search.
func (g *Game) MemoEntries() int {
	return int(g.memoEntries.Load())
}

// closeTimeout bounds how long Close waits for a search to finish so its
// memo can be saved.
const closeTimeout = 3 * time.Second

// Close stops the worker, saves memos whose searches finish in time and
// closes storage.
func (g *Game) Close() error {
	g.retireWorker()

	saved := make(chan struct{})
	go func() {
		g.memoSaves.Wait()
		close(saved)
	}()
	select {
	case <-saved:
	case <-time.After(closeTimeout):
		log.Warn().Msg("search still running, solver memo not saved")
	}
	g.closed.Store(true)

	if g.storage == nil {
		return nil
	}
	g.savePreferences()
	return g.storage.Close()
}
