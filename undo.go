package main

// History keeps pin snapshots for undo and redo. past is oldest-first,
// future is newest-first.
type History struct {
	past   [][]Pin
	future [][]Pin
	limit  int
}

func newHistory(limit int) History {
	return History{limit: limit}
}

// record pushes the collection as it was before an undoable change and drops
// any redo branch.
func (h *History) record(current []Pin) {
	h.past = h.trim(append(h.past, current))
	h.future = nil
}

func (h *History) undo(current []Pin) ([]Pin, bool) {
	if len(h.past) == 0 {
		return current, false
	}
	last := len(h.past) - 1
	prev := h.past[last]
	h.past = h.past[:last:last]
	h.future = append([][]Pin{current}, h.future...)
	return prev, true
}

func (h *History) redo(current []Pin) ([]Pin, bool) {
	if len(h.future) == 0 {
		return current, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = h.trim(append(h.past, current))
	return next, true
}

func (h *History) trim(past [][]Pin) [][]Pin {
	if h.limit > 0 && len(past) > h.limit {
		return past[len(past)-h.limit:]
	}
	return past
}

func (h *History) depth() (past, future int) {
	return len(h.past), len(h.future)
}
