package domain

import "reflect"

// Snapshot is an immutable (scene, selection) pair. Snapshots are deep
// copies: mutating the live scene after taking one never changes it.
type Snapshot struct {
	Elements   []Element `json:"elements"`
	SelectedID string    `json:"selectedId"`
}

// NewSnapshot deep-copies the given elements and selection.
func NewSnapshot(elements []Element, selectedID string) Snapshot {
	copied := make([]Element, len(elements))
	for i, e := range elements {
		copied[i] = e.Clone()
	}
	return Snapshot{Elements: copied, SelectedID: selectedID}
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.Elements, s.SelectedID)
}

// Equal reports value equality of both the element sequence and selection.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.SelectedID != o.SelectedID || len(s.Elements) != len(o.Elements) {
		return false
	}
	for i := range s.Elements {
		if !reflect.DeepEqual(s.Elements[i], o.Elements[i]) {
			return false
		}
	}
	return true
}
