package annotation

// History provides undo/redo over full list snapshots. Snapshots are whole
// copies rather than diffs; documents hold tens to low hundreds of
// annotations, so the copies stay cheap.
type History struct {
	undo [][]Annotation
	redo [][]Annotation
}

// Record pushes the pre-mutation snapshot onto the undo stack and clears the
// redo stack. Every user-visible mutation that is not itself an undo or redo
// must call this before applying its change; history is linear, so redoing
// after a fresh edit is impossible.
func (h *History) Record(snapshot []Annotation) {
	h.undo = append(h.undo, snapshot)
	h.redo = nil
}

// Undo exchanges the current list for the most recent undo snapshot,
// pushing current onto the redo stack. Returns false when there is nothing
// to undo.
func (h *History) Undo(current []Annotation) ([]Annotation, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

// Redo exchanges the current list for the most recent redo snapshot,
// pushing current onto the undo stack. Returns false when there is nothing
// to redo.
func (h *History) Redo(current []Annotation) ([]Annotation, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}
