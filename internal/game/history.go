package game

// DefaultHistorySize is the undo depth of a new session.
const DefaultHistorySize = 256

// History is a bounded undo/redo stack of snapshots. When the undo stack is
// full the oldest snapshot is dropped.
type History[S any] struct {
	undo    []S
	redo    []S
	maxSize int
}

// NewHistory creates a history holding at most maxSize undo snapshots.
func NewHistory[S any](maxSize int) *History[S] {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History[S]{maxSize: maxSize}
}

// Commit records the state being left by a new move and discards the redo
// branch.
func (h *History[S]) Commit(prev S) {
	if len(h.undo) >= h.maxSize {
		copy(h.undo, h.undo[1:])
		h.undo = h.undo[:len(h.undo)-1]
	}
	h.undo = append(h.undo, prev)
	h.redo = h.redo[:0]
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. It returns false if there is nothing to undo.
func (h *History[S]) Undo(current S) (S, bool) {
	if len(h.undo) == 0 {
		var zero S
		return zero, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return last, true
}

// Redo pops the most recently undone snapshot and pushes current onto the
// undo stack. It returns false if there is nothing to redo.
func (h *History[S]) Redo(current S) (S, bool) {
	if len(h.redo) == 0 {
		var zero S
		return zero, false
	}
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return last, true
}

// Clear empties both stacks.
func (h *History[S]) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// CanUndo returns true if there are snapshots to undo.
func (h *History[S]) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo returns true if there are snapshots to redo.
func (h *History[S]) CanRedo() bool {
	return len(h.redo) > 0
}

// UndoLen returns the number of undo snapshots.
func (h *History[S]) UndoLen() int {
	return len(h.undo)
}

// RedoLen returns the number of redo snapshots.
func (h *History[S]) RedoLen() int {
	return len(h.redo)
}
