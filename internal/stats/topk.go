package stats

import (
	"container/heap"
	"math"
	"sort"

	"github.com/verte-zerg/segstat/internal/model"
)

// TopK keeps the k strongest items pushed into it. weaker(a, b) reports
// whether a ranks below b; the weakest item is evicted on overflow.
type TopK[T any] struct {
	k int
	h boundedHeap[T]
}

// NewTopK returns a selector retaining at most k items.
func NewTopK[T any](k int, weaker func(a, b T) bool) *TopK[T] {
	return &TopK[T]{k: k, h: boundedHeap[T]{weaker: weaker}}
}

// Push offers an item.
func (t *TopK[T]) Push(item T) {
	if t.k <= 0 {
		return
	}
	heap.Push(&t.h, item)
	if t.h.Len() > t.k {
		heap.Pop(&t.h)
	}
}

// Len returns the number of retained items.
func (t *TopK[T]) Len() int {
	return t.h.Len()
}

// Sorted returns the retained items strongest first.
func (t *TopK[T]) Sorted() []T {
	out := make([]T, len(t.h.items))
	copy(out, t.h.items)
	sort.Slice(out, func(i, j int) bool {
		return t.h.weaker(out[j], out[i])
	})
	return out
}

// boundedHeap is a min-heap with the weakest item at the root.
type boundedHeap[T any] struct {
	items  []T
	weaker func(a, b T) bool
}

func (h boundedHeap[T]) Len() int           { return len(h.items) }
func (h boundedHeap[T]) Less(i, j int) bool { return h.weaker(h.items[i], h.items[j]) }
func (h boundedHeap[T]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *boundedHeap[T]) Push(x any) {
	h.items = append(h.items, x.(T))
}

func (h *boundedHeap[T]) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	var zero T
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	return item
}

// DiffSelector keeps the strongest positive (head) and negative (tail)
// differences of one attribute group.
type DiffSelector struct {
	head *TopK[model.DiffRow]
	tail *TopK[model.DiffRow]
}

// NewDiffSelector retains at most k rows per side.
func NewDiffSelector(k int) *DiffSelector {
	return &DiffSelector{
		head: NewTopK(k, func(a, b model.DiffRow) bool {
			if a.Diff == b.Diff {
				return a.Key.String() > b.Key.String()
			}
			return a.Diff < b.Diff
		}),
		tail: NewTopK(k, func(a, b model.DiffRow) bool {
			if a.Diff == b.Diff {
				return a.Key.String() > b.Key.String()
			}
			return a.Diff > b.Diff
		}),
	}
}

// Push routes row to the head or tail by the sign of its difference.
func (s *DiffSelector) Push(row model.DiffRow) {
	if row.Diff < 0 {
		s.tail.Push(row)
		return
	}
	s.head.Push(row)
}

// Selection returns head sorted descending and tail most negative first.
func (s *DiffSelector) Selection() Selection {
	return Selection{Head: s.head.Sorted(), Tail: s.tail.Sorted()}
}

// Selection is the retained head and tail of one group.
type Selection struct {
	Head []model.DiffRow
	Tail []model.DiffRow
}

// Empty reports whether no row passed the significance gates.
func (s Selection) Empty() bool {
	return len(s.Head) == 0 && len(s.Tail) == 0
}

// Salience is the largest absolute difference across head and tail.
func (s Selection) Salience() float64 {
	best := 0.0
	for _, rows := range [][]model.DiffRow{s.Head, s.Tail} {
		for _, r := range rows {
			if d := math.Abs(r.Diff); d > best {
				best = d
			}
		}
	}
	return best
}

// Rows returns the rows in descending difference order: head, then tail
// from the weakest to the most negative.
func (s Selection) Rows() []model.DiffRow {
	rows := make([]model.DiffRow, 0, len(s.Head)+len(s.Tail))
	rows = append(rows, s.Head...)
	for i := len(s.Tail) - 1; i >= 0; i-- {
		rows = append(rows, s.Tail[i])
	}
	return rows
}

type valueCount struct {
	value string
	count int
}

func topValues(counts map[string]int, n int) []valueCount {
	top := NewTopK(n, func(a, b valueCount) bool {
		if a.count == b.count {
			return a.value > b.value
		}
		return a.count < b.count
	})
	for v, c := range counts {
		top.Push(valueCount{value: v, count: c})
	}
	return top.Sorted()
}
