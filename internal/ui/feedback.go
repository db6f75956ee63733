package ui

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/pegplay/internal/board"
)

// InvalidMoveReason represents why a jump was rejected.
type InvalidMoveReason int

const (
	ReasonUnknown InvalidMoveReason = iota
	ReasonTargetOccupied
	ReasonNotAJump
	ReasonNothingToJump
	ReasonSetupFirst
)

var reasonMessages = map[InvalidMoveReason]string{
	ReasonTargetOccupied: "Land on an empty hole",
	ReasonNotAJump:       "Jump over exactly one peg",
	ReasonNothingToJump:  "No peg to jump over",
	ReasonSetupFirst:     "Remove a peg to start",
}

// ToastType selects the colours of a banner.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastError
	ToastSuccess
)

type toastStyle struct {
	bg, fg color.RGBA
}

var toastStyles = map[ToastType]toastStyle{
	ToastInfo:    {color.RGBA{50, 100, 150, 220}, color.RGBA{255, 255, 255, 255}},
	ToastWarning: {color.RGBA{180, 140, 20, 220}, color.RGBA{40, 30, 0, 255}},
	ToastError:   {color.RGBA{180, 50, 50, 220}, color.RGBA{255, 255, 255, 255}},
	ToastSuccess: {color.RGBA{50, 150, 50, 220}, color.RGBA{255, 255, 255, 255}},
}

const (
	maxToasts = 3
	toastFade = 200 * time.Millisecond
)

type toast struct {
	msg   string
	kind  ToastType
	shown time.Time
	ttl   time.Duration
}

// Toasts is a short stack of banners along the bottom edge of the board.
// Repeating the newest message restarts it instead of stacking a copy, so
// a burst of rejected clicks shows a single warning.
type Toasts struct {
	items []toast
}

// Push shows msg for ttl.
func (ts *Toasts) Push(msg string, kind ToastType, ttl time.Duration) {
	now := time.Now()
	if n := len(ts.items); n > 0 && ts.items[n-1].msg == msg {
		ts.items[n-1].shown = now.Add(-toastFade)
		ts.items[n-1].ttl = ttl + toastFade
		return
	}
	ts.items = append(ts.items, toast{msg: msg, kind: kind, shown: now, ttl: ttl})
	if len(ts.items) > maxToasts {
		ts.items = ts.items[len(ts.items)-maxToasts:]
	}
}

// Update drops expired banners.
func (ts *Toasts) Update() {
	now := time.Now()
	live := ts.items[:0]
	for _, t := range ts.items {
		if now.Sub(t.shown) < t.ttl {
			live = append(live, t)
		}
	}
	ts.items = live
}

// Draw stacks the banners upwards from the bottom of a board boardWidth
// logical pixels wide, newest lowest.
func (ts *Toasts) Draw(screen *ebiten.Image, boardWidth int) {
	face := GetFaceWithSize(defaultFontSize * UIScale)
	if face == nil || len(ts.items) == 0 {
		return
	}

	pad := 10 * UIScale
	bottom := float64(boardWidth) * UIScale * 0.96
	for i := len(ts.items) - 1; i >= 0; i-- {
		t := ts.items[i]
		a := fadeInOut(time.Since(t.shown), t.ttl, toastFade)
		style := toastStyles[t.kind]

		w, h := MeasureText(t.msg, face)
		boxW, boxH := w+pad*2, h+pad*2
		x := float64(boardWidth)*UIScale/2 - boxW/2
		y := bottom - boxH

		vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), withAlpha(style.bg, a), false)
		vector.DrawFilledRect(screen, float32(x), float32(y+boxH-2*UIScale), float32(boxW), float32(2*UIScale), withAlpha(style.fg, a*0.4), false)

		op := &text.DrawOptions{}
		op.GeoM.Translate(x+pad, y+pad)
		op.ColorScale.ScaleWithColor(withAlpha(style.fg, a))
		text.Draw(screen, t.msg, face, op)

		bottom = y - 6*UIScale
	}
}

// fadeInOut ramps from 0 to 1 over edge, holds, and ramps back down over
// the last edge of ttl.
func fadeInOut(elapsed, ttl, edge time.Duration) float64 {
	switch {
	case elapsed < edge:
		return float64(elapsed) / float64(edge)
	case elapsed > ttl-edge:
		return max(float64(ttl-elapsed)/float64(edge), 0)
	}
	return 1
}

func withAlpha(c color.RGBA, a float64) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * a)}
}

// effectKind selects how a cell effect is drawn.
type effectKind int

const (
	effectShake effectKind = iota // rejected source peg wobbles
	effectFlash                   // rejected destination blinks
	effectPop                     // jumped or removed peg leaves an expanding ring
	effectLand                    // landing hole pulses once
)

var effectDurations = [...]time.Duration{
	effectShake: 300 * time.Millisecond,
	effectFlash: 400 * time.Millisecond,
	effectPop:   350 * time.Millisecond,
	effectLand:  250 * time.Millisecond,
}

type cellEffect struct {
	kind  effectKind
	cell  board.Cell
	start time.Time
}

func (e cellEffect) progress(now time.Time) float64 {
	return float64(now.Sub(e.start)) / float64(effectDurations[e.kind])
}

// Effects animates single cells: the pegs a jump touches and the cells of
// a rejected jump.
type Effects struct {
	theme *Theme
	list  []cellEffect
}

// NewEffects creates an empty effect list drawn in the colours of theme.
func NewEffects(theme *Theme) *Effects {
	return &Effects{theme: theme}
}

func (fx *Effects) add(kind effectKind, c board.Cell) {
	if c == board.NoCell {
		return
	}
	fx.list = append(fx.list, cellEffect{kind: kind, cell: c, start: time.Now()})
}

// Update drops finished effects.
func (fx *Effects) Update() {
	now := time.Now()
	live := fx.list[:0]
	for _, e := range fx.list {
		if e.progress(now) < 1 {
			live = append(live, e)
		}
	}
	fx.list = live
}

// Offset returns the logical displacement of the peg drawn at c.
func (fx *Effects) Offset(c board.Cell) (float64, float64) {
	now := time.Now()
	for _, e := range fx.list {
		if e.kind != effectShake || e.cell != c {
			continue
		}
		p := e.progress(now)
		if p >= 1 {
			break
		}
		return 8 * math.Exp(-5*p) * math.Sin(40*p), 0
	}
	return 0, 0
}

// Draw renders the ring, flash and pulse effects.
func (fx *Effects) Draw(screen *ebiten.Image, r *Renderer) {
	now := time.Now()
	for _, e := range fx.list {
		p := e.progress(now)
		if p >= 1 {
			continue
		}
		switch e.kind {
		case effectFlash:
			r.DrawCellFlash(screen, e.cell, withAlpha(fx.theme.InvalidFlash, 1-p))
		case effectPop:
			r.DrawCellRing(screen, e.cell, 0.3+0.25*p, withAlpha(fx.theme.BoardEdge, 1-p))
		case effectLand:
			r.DrawCellRing(screen, e.cell, 0.5-0.1*p, withAlpha(fx.theme.TargetColor, 1-p))
		}
	}
}

// FeedbackManager turns game events into banners, cell effects and sounds.
type FeedbackManager struct {
	toasts  Toasts
	effects *Effects
	audio   *AudioManager
}

// NewFeedbackManager creates a new feedback manager.
func NewFeedbackManager(theme *Theme) *FeedbackManager {
	return &FeedbackManager{
		effects: NewEffects(theme),
		audio:   NewAudioManager(),
	}
}

// Update expires banners and effects.
func (fm *FeedbackManager) Update() {
	fm.toasts.Update()
	fm.effects.Update()
}

// Draw renders effects and banners over the board.
func (fm *FeedbackManager) Draw(screen *ebiten.Image, renderer *Renderer) {
	fm.effects.Draw(screen, renderer)
	fm.toasts.Draw(screen, renderer.Size())
}

// Effects returns the cell effects, which the renderer queries for offsets.
func (fm *FeedbackManager) Effects() *Effects {
	return fm.effects
}

// Audio returns the audio manager.
func (fm *FeedbackManager) Audio() *AudioManager {
	return fm.audio
}

// Info shows a neutral banner.
func (fm *FeedbackManager) Info(message string) {
	fm.toasts.Push(message, ToastInfo, 2*time.Second)
}

// OnInvalidMove reports a rejected jump from src to dst.
func (fm *FeedbackManager) OnInvalidMove(src, dst board.Cell, reason InvalidMoveReason) {
	msg, ok := reasonMessages[reason]
	if !ok {
		msg = "Invalid move"
	}
	fm.toasts.Push(msg, ToastWarning, 2*time.Second)
	fm.effects.add(effectShake, src)
	fm.effects.add(effectFlash, dst)
	fm.audio.Play(SoundInvalid)
}

// OnRemove reports the opening removal at c.
func (fm *FeedbackManager) OnRemove(c board.Cell) {
	fm.effects.add(effectPop, c)
	fm.audio.Play(SoundRemove)
}

// OnJump reports a completed jump.
func (fm *FeedbackManager) OnJump(m board.Move) {
	fm.effects.add(effectPop, m.Over)
	fm.effects.add(effectLand, m.To)
	fm.audio.Play(SoundJump)
}

// OnSelect reports picking up a peg.
func (fm *FeedbackManager) OnSelect() {
	fm.audio.Play(SoundSelect)
}

// OnSolved reports a single peg left on the goal.
func (fm *FeedbackManager) OnSolved(moves int) {
	fm.toasts.Push(fmt.Sprintf("Solved in %d moves!", moves), ToastSuccess, 5*time.Second)
	fm.audio.Play(SoundSolved)
}

// OnStuck reports a board with no jumps left.
func (fm *FeedbackManager) OnStuck(pegs int) {
	fm.toasts.Push(fmt.Sprintf("No moves left, %d pegs remain", pegs), ToastInfo, 5*time.Second)
	fm.audio.Play(SoundStuck)
}

// OnUnsolvable warns that the board can no longer reach the goal.
func (fm *FeedbackManager) OnUnsolvable() {
	fm.toasts.Push("This board can no longer be solved", ToastError, 3*time.Second)
}
