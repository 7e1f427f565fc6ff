package routing

import "math"

// MinHeap is a concrete-typed min-heap for search frontiers.
// Avoids interface boxing overhead of container/heap.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry. Node is a node id for node-based
// searches and a state id for edge-based ones.
type PQItem struct {
	Node uint32
	Key  float64
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node uint32, key float64) {
	h.items = append(h.items, PQItem{node, key})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

// PeekKey returns the smallest key, or +Inf for an empty heap.
func (h *MinHeap) PeekKey() float64 {
	if len(h.items) == 0 {
		return math.Inf(1)
	}
	return h.items[0].Key
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Key >= h.items[parent].Key {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Key < h.items[smallest].Key {
			smallest = left
		}
		if right < n && h.items[right].Key < h.items[smallest].Key {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
