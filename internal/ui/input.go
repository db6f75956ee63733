package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// dragThreshold is how far, in logical pixels, the mouse must travel with
// the button held before a press counts as a drag instead of a click.
const dragThreshold = 6

// InputHandler manages mouse and keyboard input.
type InputHandler struct {
	mouseX, mouseY   int // Logical coordinates (unscaled)
	pressX, pressY   int // Where the current press started
	leftPressed      bool
	leftJustPressed  bool
	leftJustReleased bool
	dragged          bool
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update updates the input state. Call this once per frame.
func (ih *InputHandler) Update() {
	rawX, rawY := ebiten.CursorPosition()

	// Convert to logical coordinates by dividing by scale
	scale := UIScale
	if scale < 1.0 {
		scale = 1.0
	}
	ih.mouseX = int(float64(rawX) / scale)
	ih.mouseY = int(float64(rawY) / scale)

	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	ih.leftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if ih.leftJustPressed {
		ih.pressX, ih.pressY = ih.mouseX, ih.mouseY
		ih.dragged = false
	}
	if ih.leftPressed && !ih.dragged {
		dx, dy := ih.mouseX-ih.pressX, ih.mouseY-ih.pressY
		ih.dragged = dx*dx+dy*dy >= dragThreshold*dragThreshold
	}
}

// MousePosition returns the current mouse position in logical coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// PressPosition returns where the current or last press started.
func (ih *InputHandler) PressPosition() (int, int) {
	return ih.pressX, ih.pressY
}

// IsLeftJustPressed returns true if the left mouse button was just pressed.
func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

// IsLeftJustReleased returns true if the left mouse button was just released.
func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

// IsLeftPressed returns true if the left mouse button is currently pressed.
func (ih *InputHandler) IsLeftPressed() bool {
	return ih.leftPressed
}

// IsDragging reports whether the held button has moved past the drag threshold.
func (ih *InputHandler) IsDragging() bool {
	return ih.dragged
}

// IsInBounds returns true if the mouse is within the given rectangle.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.mouseX >= x && ih.mouseX < x+w && ih.mouseY >= y && ih.mouseY < y+h
}

// ClickedInBounds returns true if the mouse was just clicked within the given rectangle.
func (ih *InputHandler) ClickedInBounds(x, y, w, h int) bool {
	return ih.leftJustPressed && ih.IsInBounds(x, y, w, h)
}

// IsKeyJustPressed returns true if the specified key was just pressed.
func IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// IsKeyPressed returns true if the specified key is currently pressed.
func IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// Shortcut is a keyboard command recognised on the board.
type Shortcut int

const (
	ShortcutNone Shortcut = iota
	ShortcutUndo
	ShortcutRedo
	ShortcutReset
	ShortcutToggleHints
	ShortcutDeselect
)

// ReadShortcut returns the shortcut triggered this frame, if any.
// Ctrl (or Cmd) + Z undoes, with Shift or Ctrl+Y it redoes.
func ReadShortcut() Shortcut {
	mod := IsKeyPressed(ebiten.KeyControl) || IsKeyPressed(ebiten.KeyMeta)
	switch {
	case mod && IsKeyJustPressed(ebiten.KeyZ) && IsKeyPressed(ebiten.KeyShift):
		return ShortcutRedo
	case mod && IsKeyJustPressed(ebiten.KeyZ), IsKeyJustPressed(ebiten.KeyBackspace):
		return ShortcutUndo
	case mod && IsKeyJustPressed(ebiten.KeyY):
		return ShortcutRedo
	case IsKeyJustPressed(ebiten.KeyR) && !mod:
		return ShortcutReset
	case IsKeyJustPressed(ebiten.KeyH):
		return ShortcutToggleHints
	case IsKeyJustPressed(ebiten.KeyEscape):
		return ShortcutDeselect
	}
	return ShortcutNone
}
