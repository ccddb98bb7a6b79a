package editor

import "easel/internal/domain"

// History is a linear undo/redo log of full-scene snapshots. The log is
// seeded with the empty scene, which is the permanent floor: undo can never
// pass below it. The snapshot at the cursor always mirrors the live store.
type History struct {
	snaps  []domain.Snapshot
	cursor int
}

// NewHistory returns a history seeded with the empty-scene snapshot.
func NewHistory() *History {
	return &History{snaps: []domain.Snapshot{domain.NewSnapshot(nil, "")}}
}

// Commit truncates any snapshots beyond the cursor (discarding redo
// history), appends the snapshot, and moves the cursor to it. One commit
// per completed gesture, never per pointer-move frame.
func (h *History) Commit(snap domain.Snapshot) {
	h.snaps = append(h.snaps[:h.cursor+1], snap)
	h.cursor = len(h.snaps) - 1
}

// Undo steps the cursor back and returns that snapshot. At the floor it
// reports false and the cursor stays put.
func (h *History) Undo() (domain.Snapshot, bool) {
	if h.cursor == 0 {
		return domain.Snapshot{}, false
	}
	h.cursor--
	return h.snaps[h.cursor], true
}

// Redo steps the cursor forward and returns that snapshot. At the newest
// entry it reports false.
func (h *History) Redo() (domain.Snapshot, bool) {
	if h.cursor >= len(h.snaps)-1 {
		return domain.Snapshot{}, false
	}
	h.cursor++
	return h.snaps[h.cursor], true
}

// Depth returns the total number of snapshots in the log.
func (h *History) Depth() int { return len(h.snaps) }

// Pos returns the cursor index, 0 ≤ Pos < Depth.
func (h *History) Pos() int { return h.cursor }

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.snaps)-1 }
