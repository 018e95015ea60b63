package ui

import "github.com/piwi3910/lumispec/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the rows of one inline-edited table at a point in time.
type Snapshot struct {
	// Target is "product" or the id of the measurement being edited.
	Target string
	Rows   []model.ParamRow
	Label  string // e.g. "Import readings"
}

// History manages undo/redo stacks of row snapshots for a single edit
// session. Pushing a snapshot for another target starts a new session.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
	target    string
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the change is applied.
func (h *History) Push(s Snapshot) {
	if s.Target != h.target {
		h.Clear()
		h.target = s.Target
	}
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. It returns false when there is nothing to undo for current's
// target.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 || current.Target != h.target {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent redo snapshot and pushes current onto the undo
// stack.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 || current.Target != h.target {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.target = ""
}

// MakeSnapshot copies rows into a snapshot.
func MakeSnapshot(target string, rows []model.ParamRow, label string) Snapshot {
	return Snapshot{
		Target: target,
		Rows:   model.CopyRows(rows),
		Label:  label,
	}
}
