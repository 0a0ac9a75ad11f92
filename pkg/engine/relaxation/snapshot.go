package relaxation

import (
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
)

// snapshotRing. keeps the last capacity iteration grids, oldest first.
type snapshotRing struct {
	capacity int
	items    []Snapshot
	start    int
}

func newSnapshotRing(capacity int) *snapshotRing {
	return &snapshotRing{
		capacity: capacity,
		items:    make([]Snapshot, 0, capacity),
	}
}

func (sr *snapshotRing) push(iteration int, field *da.Grid[float64]) {
	if sr.capacity == 0 {
		return
	}
	s := Snapshot{Iteration: iteration, Field: field.Clone()}
	if len(sr.items) < sr.capacity {
		sr.items = append(sr.items, s)
		return
	}
	sr.items[sr.start] = s
	sr.start = (sr.start + 1) % sr.capacity
}

func (sr *snapshotRing) ordered() []Snapshot {
	out := make([]Snapshot, 0, len(sr.items))
	for i := 0; i < len(sr.items); i++ {
		out = append(out, sr.items[(sr.start+i)%len(sr.items)])
	}
	return out
}
