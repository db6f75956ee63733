package ui

import (
	"fmt"
	"image/color"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/game"
)

// Panel dimensions
const (
	PanelPadding    = 20
	SectionSpacing  = 24
	ButtonHeight    = 40
	TabHeight       = 34
	CollapsedWidth  = 20
	CollapseButtonW = 16
	CollapseButtonH = 48
	SectionLabelH   = 20
	CheckboxRowH    = 30
	StatusLineH     = 22
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	sectionBg       = color.RGBA{48, 52, 58, 255}
	tabActiveBg     = color.RGBA{76, 132, 96, 255}
	tabInactiveBg   = color.RGBA{50, 54, 60, 255}
	tabHoverBg      = color.RGBA{65, 70, 78, 255}
	buttonBg        = color.RGBA{50, 54, 60, 255}
	buttonHoverBg   = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	statusThinking  = color.RGBA{100, 180, 255, 255}
	statusSolved    = color.RGBA{120, 220, 140, 255}
	statusStuck     = color.RGBA{255, 200, 80, 255}
	statusLost      = color.RGBA{240, 110, 100, 255}
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	Disabled   bool
	hovered    bool
	pressed    bool
}

func (b *Button) update(input *InputHandler) bool {
	b.hovered = !b.Disabled && input.IsInBounds(b.X, b.Y, b.W, b.H)
	b.pressed = b.hovered && input.IsLeftPressed()
	if b.hovered && input.IsLeftJustPressed() && b.OnClick != nil {
		b.OnClick()
		return true
	}
	return false
}

// Panel is the side panel with the game controls and status.
type Panel struct {
	game      *Game
	collapsed bool

	collapseBtn *Button
	resetBtn    *Button
	undoBtn     *Button
	redoBtn     *Button
	layoutTabs  *ButtonGroup
	solutionBox *Checkbox
	soundBox    *Checkbox
	confirmBox  *Checkbox

	layouts []string
}

// NewPanel creates a new panel for the given game.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g, layouts: board.Layouts()}
	p.createWidgets()
	return p
}

// createWidgets lays out every control from the top of the panel down.
func (p *Panel) createWidgets() {
	tabY := (ScreenHeight - CollapseButtonH) / 2
	collapseX := BoardSize
	if p.collapsed {
		collapseX = BoardSize + 2
	}
	p.collapseBtn = &Button{X: collapseX, Y: tabY, W: CollapseButtonW, H: CollapseButtonH, OnClick: p.toggleCollapse}

	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2

	y := PanelPadding + 8
	p.resetBtn = &Button{X: x, Y: y, W: w, H: ButtonHeight, Label: "Reset", OnClick: p.game.ResetAction}

	y += ButtonHeight + 8
	half := (w - 8) / 2
	p.undoBtn = &Button{X: x, Y: y, W: half, H: TabHeight, Label: "Undo", OnClick: p.game.UndoAction}
	p.redoBtn = &Button{X: x + half + 8, Y: y, W: half, H: TabHeight, Label: "Redo", OnClick: p.game.RedoAction}

	y += TabHeight + SectionSpacing + SectionLabelH
	selected := 0
	for i, name := range p.layouts {
		if name == p.game.LayoutName() {
			selected = i
		}
	}
	p.layoutTabs = NewButtonGroup(x, y, p.layouts, selected, w/2, TabHeight, 2, func(i int) {
		p.game.SetLayoutAction(p.layouts[i])
	})

	y += p.layoutTabs.Height() + SectionSpacing + SectionLabelH
	prefs := p.game.Prefs()
	p.solutionBox = NewCheckbox(x, y, "Show solution", prefs.ShowSolution, p.game.SetShowSolution)
	p.soundBox = NewCheckbox(x, y+CheckboxRowH, "Sound effects", prefs.SoundEnabled, p.game.SetSoundEnabled)
	p.confirmBox = NewCheckbox(x, y+CheckboxRowH*2, "Confirm reset", prefs.ConfirmReset, p.game.SetConfirmReset)
}

// gameSectionY is where the game status section starts.
func (p *Panel) gameSectionY() int {
	return p.confirmBox.Y + CheckboxRowH + SectionSpacing
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	if p.collapseBtn.update(input) {
		return true
	}
	if p.collapsed {
		return false
	}

	s := p.game.Session()
	p.resetBtn.Disabled = !s.CanReset()
	p.undoBtn.Disabled = !s.CanUndo()
	p.redoBtn.Disabled = !s.CanRedo()

	// Keep widgets in sync with changes made by keyboard shortcuts.
	prefs := p.game.Prefs()
	p.solutionBox.Checked = prefs.ShowSolution
	p.confirmBox.Checked = prefs.ConfirmReset

	for _, b := range []*Button{p.resetBtn, p.undoBtn, p.redoBtn} {
		if b.update(input) {
			return true
		}
	}
	if p.layoutTabs.Update(input) {
		return true
	}
	for _, cb := range []*Checkbox{p.solutionBox, p.soundBox, p.confirmBox} {
		if cb.Update(input) {
			return true
		}
	}

	// Swallow clicks on the panel background so they never reach the board.
	mx, _ := input.MousePosition()
	return input.IsLeftJustPressed() && mx >= BoardSize
}

// AnyButtonHovered returns true if any control in the panel is hovered.
func (p *Panel) AnyButtonHovered() bool {
	if p.collapseBtn.hovered {
		return true
	}
	if p.collapsed {
		return false
	}
	return p.resetBtn.hovered || p.undoBtn.hovered || p.redoBtn.hovered ||
		p.layoutTabs.hovered >= 0 ||
		p.solutionBox.hovered || p.soundBox.hovered || p.confirmBox.hovered
}

// SyncLayout selects the tab of the named layout.
func (p *Panel) SyncLayout(name string) {
	for i, l := range p.layouts {
		if l == name {
			p.layoutTabs.Selected = i
		}
	}
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	if p.collapsed {
		vector.DrawFilledRect(screen, scaleF(BoardSize), 0, scaleF(CollapsedWidth), scaleF(ScreenHeight), panelBg, false)
		p.drawCollapseButton(screen, true)
		return
	}

	vector.DrawFilledRect(screen, scaleF(BoardSize), 0, scaleF(PanelWidth), scaleF(ScreenHeight), panelBg, false)
	p.drawCollapseButton(screen, false)

	p.drawPrimaryButton(screen, p.resetBtn)
	p.drawSecondaryButton(screen, p.undoBtn)
	p.drawSecondaryButton(screen, p.redoBtn)

	x := BoardSize + PanelPadding
	DrawSectionHeader(screen, "Layout", x, p.layoutTabs.Y-SectionLabelH)
	p.layoutTabs.Draw(screen)

	DrawSectionHeader(screen, "Options", x, p.solutionBox.Y-SectionLabelH)
	p.solutionBox.Draw(screen)
	p.soundBox.Draw(screen)
	p.confirmBox.Draw(screen)

	p.drawGameSection(screen, p.gameSectionY())
	p.drawStatusBar(screen)
}

func (p *Panel) drawCollapseButton(screen *ebiten.Image, expand bool) {
	btn := p.collapseBtn
	bgColor := panelBg
	if btn.hovered {
		bgColor = sectionBg
	}
	vector.DrawFilledRect(screen, scaleF(btn.X), scaleF(btn.Y), scaleF(btn.W), scaleF(btn.H), bgColor, false)

	arrow := "‹"
	if expand {
		arrow = "›"
	}
	textC := textMuted
	if btn.hovered {
		textC = textPrimary
	}
	drawTextCentered(screen, arrow, btn.X+btn.W/2, btn.Y+btn.H/2, textC, scaledFace())
}

func (p *Panel) drawPrimaryButton(screen *ebiten.Image, btn *Button) {
	fill, border, fg := accentColor, accentPressed, textPrimary
	switch {
	case btn.Disabled:
		fill, border, fg = buttonBg, buttonBorder, textMuted
	case btn.pressed:
		fill = accentPressed
	case btn.hovered:
		fill, border = accentHover, color.RGBA{116, 215, 160, 255}
	}
	drawBox(screen, btn.X, btn.Y, btn.W, btn.H, fill, border)
	drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, fg, scaledFace())
}

func (p *Panel) drawSecondaryButton(screen *ebiten.Image, btn *Button) {
	fill, border, fg := buttonBg, buttonBorder, textSecondary
	switch {
	case btn.Disabled:
		fg = textMuted
	case btn.pressed:
		fill = buttonPressedBg
	case btn.hovered:
		fill, border = buttonHoverBg, accentColor
	}
	drawBox(screen, btn.X, btn.Y, btn.W, btn.H, fill, border)
	drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, fg, scaledFace())
}

// drawGameSection shows the phase, peg count and solvability.
func (p *Panel) drawGameSection(screen *ebiten.Image, y int) {
	x := BoardSize + PanelPadding
	DrawSectionHeader(screen, "Game", x, y)
	y += SectionLabelH

	s := p.game.Session()
	statusText, statusColor := p.statusLine(s)
	drawText(screen, statusText, x, y, statusColor)
	y += StatusLineH

	drawText(screen, fmt.Sprintf("Pegs left: %d", s.PegCount()), x, y, textPrimary)
	drawText(screen, fmt.Sprintf("Moves: %d", s.MovesMade()), x+140, y, textPrimary)
	y += StatusLineH

	if s.InSetup() || s.Status() != game.StatusPlaying {
		return
	}
	solvable, known := p.game.Solvable()
	switch {
	case !known:
		drawText(screen, "Analysing...", x, y, statusThinking)
	case solvable:
		drawText(screen, "Still solvable", x, y, statusSolved)
	default:
		drawText(screen, "Cannot be solved", x, y, statusLost)
	}
}

func (p *Panel) statusLine(s *game.Session) (string, color.RGBA) {
	if s.InSetup() {
		return "Click a peg to remove it", textPrimary
	}
	switch s.Status() {
	case game.StatusSolved:
		return "Solved!", statusSolved
	case game.StatusStuck:
		return "No moves left", statusStuck
	}
	if s.Active() != board.NoCell {
		return fmt.Sprintf("Jump from %s", s.Active()), textPrimary
	}
	return "Select a peg to jump", textPrimary
}

// drawStatusBar shows lifetime stats and the solver's memo size.
func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	y := ScreenHeight - 70
	x := BoardSize + PanelPadding
	DrawDivider(screen, x, y-10, PanelWidth-PanelPadding*2)

	if st := p.game.Stats(); st != nil {
		drawText(screen, fmt.Sprintf("Played %d  Solved %d (%.0f%%)", st.GamesPlayed, st.Solved, st.SolveRate()), x, y, textSecondary)
	}
	drawText(screen, fmt.Sprintf("Solver memo: %s positions", humanize.Comma(int64(p.game.MemoEntries()))), x, y+StatusLineH, textMuted)
}

// Collapsed returns whether the panel is collapsed.
func (p *Panel) Collapsed() bool {
	return p.collapsed
}

// toggleCollapse toggles the panel collapsed state and resizes the window.
func (p *Panel) toggleCollapse() {
	p.collapsed = !p.collapsed
	p.createWidgets()
	if p.collapsed {
		ebiten.SetWindowSize(BoardSize+CollapsedWidth, ScreenHeight)
	} else {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	}
}
