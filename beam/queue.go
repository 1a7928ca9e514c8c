package beam

import (
	"container/heap"
	"sort"
)

type entry struct {
	seq   Sequence
	order int
}

// worse reports whether a ranks behind b. Equal scores fall back to the
// insertion order so the earlier hypothesis wins.
func worse(a, b entry) bool {
	if c := a.seq.Compare(b.seq); c != 0 {
		return c > 0
	}
	return a.order > b.order
}

// frontier keeps the best limit hypotheses of a step. It is a min-heap on
// rank, so the root is the first one to drop when a better child arrives.
type frontier struct {
	items []entry
	limit int
	added int
}

func newFrontier(limit int) *frontier {
	return &frontier{
		items: make([]entry, 0, limit),
		limit: limit,
	}
}

func (f *frontier) Len() int {
	return len(f.items)
}

func (f *frontier) Less(i, j int) bool {
	return worse(f.items[i], f.items[j])
}

func (f *frontier) Swap(i, j int) {
	f.items[i], f.items[j] = f.items[j], f.items[i]
}

func (f *frontier) Push(x interface{}) {
	f.items = append(f.items, x.(entry))
}

func (f *frontier) Pop() interface{} {
	last := len(f.items) - 1
	e := f.items[last]
	f.items = f.items[:last]
	return e
}

func (f *frontier) add(seq Sequence) {
	e := entry{seq: seq, order: f.added}
	f.added++

	if len(f.items) < f.limit {
		heap.Push(f, e)
		return
	}
	if worse(e, f.items[0]) {
		return
	}
	f.items[0] = e
	heap.Fix(f, 0)
}

// ranked returns the kept hypotheses best first.
func (f *frontier) ranked() []Sequence {
	entries := make([]entry, len(f.items))
	copy(entries, f.items)
	sort.Slice(entries, func(i, j int) bool {
		return worse(entries[j], entries[i])
	})

	res := make([]Sequence, len(entries))
	for i, e := range entries {
		res[i] = e.seq
	}
	return res
}
