package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget colors (shares buttonBg, accentColor, textPrimary etc. with panel.go)
var (
	widgetBg      = color.RGBA{48, 52, 58, 255}
	widgetBorder  = color.RGBA{68, 72, 78, 255}
	widgetHoverBg = color.RGBA{65, 70, 78, 255}
	checkboxCheck = color.RGBA{76, 175, 120, 255}
	widgetHoverFg = color.RGBA{240, 240, 245, 255}
)

// Widgets lay out in logical pixels and scale by UIScale when drawing.

func scaleF(v int) float32 { return float32(float64(v) * UIScale) }

func scaleD(v int) float64 { return float64(v) * UIScale }

func scaledFace() *text.GoTextFace {
	return GetFaceWithSize(defaultFontSize * UIScale)
}

// drawText draws s with its top-left corner at logical (x, y).
func drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	face := scaledFace()
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(x), scaleD(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// drawTextCentered draws s centered on logical (cx, cy).
func drawTextCentered(screen *ebiten.Image, s string, cx, cy int, c color.Color, face *text.GoTextFace) {
	if face == nil {
		return
	}
	w, h := MeasureText(s, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(cx)-w/2, scaleD(cy)-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// drawBox fills a logical rectangle and strokes its border.
func drawBox(screen *ebiten.Image, x, y, w, h int, fill, border color.Color) {
	vector.DrawFilledRect(screen, scaleF(x), scaleF(y), scaleF(w), scaleF(h), fill, false)
	vector.StrokeRect(screen, scaleF(x), scaleF(y), scaleF(w), scaleF(h), float32(UIScale), border, false)
}

// Checkbox is a toggleable checkbox widget.
type Checkbox struct {
	X, Y     int
	Label    string
	Checked  bool
	OnChange func(bool)
	hovered  bool
}

// NewCheckbox creates a new checkbox.
func NewCheckbox(x, y int, label string, checked bool, onChange func(bool)) *Checkbox {
	return &Checkbox{X: x, Y: y, Label: label, Checked: checked, OnChange: onChange}
}

// Update handles checkbox input. It returns true when the box was toggled.
func (cb *Checkbox) Update(input *InputHandler) bool {
	cb.hovered = input.IsInBounds(cb.X, cb.Y, 200, 24)
	if input.IsLeftJustPressed() && cb.hovered {
		cb.Checked = !cb.Checked
		if cb.OnChange != nil {
			cb.OnChange(cb.Checked)
		}
		return true
	}
	return false
}

// Draw renders the checkbox.
func (cb *Checkbox) Draw(screen *ebiten.Image) {
	bgColor := widgetBg
	if cb.hovered {
		bgColor = widgetHoverBg
	}
	borderC := widgetBorder
	if cb.hovered {
		borderC = accentColor
	} else if cb.Checked {
		borderC = checkboxCheck
	}
	drawBox(screen, cb.X, cb.Y, 20, 20, bgColor, borderC)

	if cb.Checked {
		x, y := scaleF(cb.X), scaleF(cb.Y)
		k := float32(UIScale)
		vector.StrokeLine(screen, x+4*k, y+10*k, x+8*k, y+14*k, 2*k, checkboxCheck, false)
		vector.StrokeLine(screen, x+8*k, y+14*k, x+16*k, y+6*k, 2*k, checkboxCheck, false)
	}

	textColor := textSecondary
	if cb.Checked {
		textColor = textPrimary
	} else if cb.hovered {
		textColor = widgetHoverFg
	}
	face := scaledFace()
	if face == nil {
		return
	}
	_, h := MeasureText(cb.Label, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(cb.X+30), scaleD(cb.Y+10)-h/2)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, cb.Label, face, op)
}

// ButtonGroup is a grid of toggle buttons with one selected.
type ButtonGroup struct {
	X, Y     int
	Options  []string
	Selected int
	ButtonW  int
	ButtonH  int
	Columns  int
	OnSelect func(int)
	hovered  int
	pressed  int
}

// NewButtonGroup creates a new button group laid out in rows of columns.
func NewButtonGroup(x, y int, options []string, selected, buttonW, buttonH, columns int, onSelect func(int)) *ButtonGroup {
	if columns <= 0 {
		columns = len(options)
	}
	return &ButtonGroup{
		X:        x,
		Y:        y,
		Options:  options,
		Selected: selected,
		ButtonW:  buttonW,
		ButtonH:  buttonH,
		Columns:  columns,
		OnSelect: onSelect,
		hovered:  -1,
		pressed:  -1,
	}
}

func (bg *ButtonGroup) origin(i int) (int, int) {
	return bg.X + (i%bg.Columns)*bg.ButtonW, bg.Y + (i/bg.Columns)*bg.ButtonH
}

// Height returns the logical height of the group.
func (bg *ButtonGroup) Height() int {
	rows := (len(bg.Options) + bg.Columns - 1) / bg.Columns
	return rows * bg.ButtonH
}

// Update handles button group input.
func (bg *ButtonGroup) Update(input *InputHandler) bool {
	bg.hovered = -1
	bg.pressed = -1

	for i := range bg.Options {
		x, y := bg.origin(i)
		if !input.IsInBounds(x, y, bg.ButtonW, bg.ButtonH) {
			continue
		}
		bg.hovered = i
		if input.IsLeftPressed() {
			bg.pressed = i
		}
		if input.IsLeftJustPressed() {
			bg.Selected = i
			if bg.OnSelect != nil {
				bg.OnSelect(i)
			}
			return true
		}
	}
	return false
}

// Draw renders the button group.
func (bg *ButtonGroup) Draw(screen *ebiten.Image) {
	face := scaledFace()
	for i, label := range bg.Options {
		x, y := bg.origin(i)
		selected := i == bg.Selected

		fill := tabInactiveBg
		switch {
		case selected:
			fill = tabActiveBg
		case i == bg.pressed:
			fill = buttonPressedBg
		case i == bg.hovered:
			fill = tabHoverBg
		}
		border := buttonBorder
		if selected {
			border = tabActiveBg
		} else if i == bg.hovered {
			border = accentColor
		}
		drawBox(screen, x, y, bg.ButtonW, bg.ButtonH, fill, border)

		textColor := textSecondary
		if selected {
			textColor = textPrimary
		}
		drawTextCentered(screen, label, x+bg.ButtonW/2, y+bg.ButtonH/2, textColor, face)
	}
}

// ModalButton is a button for modal dialogs.
type ModalButton struct {
	X, Y, W, H int
	Label      string
	Primary    bool
	OnClick    func()
	hovered    bool
	pressed    bool
}

// NewModalButton creates a new modal button.
func NewModalButton(x, y, w, h int, label string, primary bool, onClick func()) *ModalButton {
	return &ModalButton{X: x, Y: y, W: w, H: h, Label: label, Primary: primary, OnClick: onClick}
}

// IsHovered returns true if the button is hovered.
func (mb *ModalButton) IsHovered() bool {
	return mb.hovered
}

// Update handles modal button input.
func (mb *ModalButton) Update(input *InputHandler) bool {
	mb.hovered = input.IsInBounds(mb.X, mb.Y, mb.W, mb.H)
	mb.pressed = input.IsLeftPressed() && mb.hovered

	if input.IsLeftJustPressed() && mb.hovered && mb.OnClick != nil {
		mb.OnClick()
		return true
	}
	return false
}

// Draw renders the modal button.
func (mb *ModalButton) Draw(screen *ebiten.Image) {
	var fill, border color.RGBA
	if mb.Primary {
		fill, border = accentColor, accentPressed
		if mb.pressed {
			fill = accentPressed
		} else if mb.hovered {
			fill, border = accentHover, color.RGBA{116, 215, 160, 255}
		}
	} else {
		fill, border = buttonBg, widgetBorder
		if mb.pressed {
			fill = buttonPressedBg
		} else if mb.hovered {
			fill, border = buttonHoverBg, accentColor
		}
	}
	drawBox(screen, mb.X, mb.Y, mb.W, mb.H, fill, border)
	drawTextCentered(screen, mb.Label, mb.X+mb.W/2, mb.Y+mb.H/2, textPrimary, scaledFace())
}

// DrawDivider draws a horizontal divider line.
func DrawDivider(screen *ebiten.Image, x, y, w int) {
	vector.DrawFilledRect(screen, scaleF(x), scaleF(y), scaleF(w), float32(UIScale), dividerColor, false)
}

// DrawSectionHeader draws a muted section label.
func DrawSectionHeader(screen *ebiten.Image, label string, x, y int) {
	drawText(screen, label, x, y, textMuted)
}
