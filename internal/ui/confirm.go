package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Confirm dialog dimensions
const (
	ConfirmWidth  = 360
	ConfirmHeight = 200
	ConfirmPadX   = 24
)

// Modal colors
var (
	modalBg     = color.RGBA{38, 40, 45, 255}
	modalHeader = color.RGBA{48, 52, 58, 255}
	modalBorder = color.RGBA{58, 62, 68, 255}
	modalTint   = color.RGBA{0, 0, 0, 110}
)

// ConfirmModal asks the player to confirm a destructive action.
type ConfirmModal struct {
	visible bool
	x, y    int

	title   string
	message string

	dontAsk   *Checkbox
	okBtn     *ModalButton
	cancelBtn *ModalButton

	onConfirm func(dontAskAgain bool)
}

// NewConfirmModal creates a hidden confirm dialog centered on the board.
func NewConfirmModal() *ConfirmModal {
	cm := &ConfirmModal{
		x: (BoardSize - ConfirmWidth) / 2,
		y: (ScreenHeight - ConfirmHeight) / 2,
	}

	cm.dontAsk = NewCheckbox(cm.x+ConfirmPadX, cm.y+100, "Don't ask again", false, nil)

	btnW, btnH, gap := 100, 38, 12
	btnY := cm.y + ConfirmHeight - 20 - btnH
	cm.cancelBtn = NewModalButton(cm.x+ConfirmWidth-ConfirmPadX-btnW*2-gap, btnY, btnW, btnH, "Cancel", false, cm.Hide)
	cm.okBtn = NewModalButton(cm.x+ConfirmWidth-ConfirmPadX-btnW, btnY, btnW, btnH, "OK", true, cm.confirm)
	return cm
}

// Show opens the dialog. onConfirm runs only if the player accepts.
func (cm *ConfirmModal) Show(title, message, okLabel string, onConfirm func(dontAskAgain bool)) {
	cm.visible = true
	cm.title = title
	cm.message = message
	cm.okBtn.Label = okLabel
	cm.dontAsk.Checked = false
	cm.onConfirm = onConfirm
}

// Hide closes the dialog without confirming.
func (cm *ConfirmModal) Hide() {
	cm.visible = false
	cm.onConfirm = nil
}

// IsVisible returns true if the dialog is open.
func (cm *ConfirmModal) IsVisible() bool {
	return cm.visible
}

func (cm *ConfirmModal) confirm() {
	f := cm.onConfirm
	dontAsk := cm.dontAsk.Checked
	cm.Hide()
	if f != nil {
		f(dontAsk)
	}
}

// Update handles input while the dialog is open. The dialog consumes all
// input, so it returns true whenever it is visible.
func (cm *ConfirmModal) Update(input *InputHandler) bool {
	if !cm.visible {
		return false
	}
	if IsKeyJustPressed(ebiten.KeyEscape) {
		cm.Hide()
		return true
	}
	if IsKeyJustPressed(ebiten.KeyEnter) {
		cm.confirm()
		return true
	}
	cm.dontAsk.Update(input)
	cm.okBtn.Update(input)
	cm.cancelBtn.Update(input)
	return true
}

// AnyButtonHovered returns true if any control in the dialog is hovered.
func (cm *ConfirmModal) AnyButtonHovered() bool {
	return cm.visible && (cm.okBtn.IsHovered() || cm.cancelBtn.IsHovered() || cm.dontAsk.hovered)
}

// Draw renders the dialog over a blurred backdrop.
func (cm *ConfirmModal) Draw(screen *ebiten.Image, backdrop *Backdrop) {
	if !cm.visible {
		return
	}

	b := screen.Bounds()
	backdrop.Draw(screen, 0, 0, b.Dx(), b.Dy(), modalTint, 3.0)

	vector.DrawFilledRect(screen, scaleF(cm.x), scaleF(cm.y), scaleF(ConfirmWidth), scaleF(ConfirmHeight), modalBg, false)
	vector.StrokeRect(screen, scaleF(cm.x), scaleF(cm.y), scaleF(ConfirmWidth), scaleF(ConfirmHeight), float32(UIScale*2), modalBorder, false)
	vector.DrawFilledRect(screen, scaleF(cm.x), scaleF(cm.y), scaleF(ConfirmWidth), scaleF(44), modalHeader, false)

	drawTextCentered(screen, cm.title, cm.x+ConfirmWidth/2, cm.y+22, textPrimary, GetBoldFaceWithSize(titleFontSize*UIScale))
	drawText(screen, cm.message, cm.x+ConfirmPadX, cm.y+60, textSecondary)

	cm.dontAsk.Draw(screen)
	cm.okBtn.Draw(screen)
	cm.cancelBtn.Draw(screen)
}
