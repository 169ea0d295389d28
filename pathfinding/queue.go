package pathfinding

import (
	"container/heap"
)

// nodeHeap implements heap.Interface over grid nodes.
type nodeHeap []*GridNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	// Primary sort by F
	if h[i].F != h[j].F {
		return h[i].F < h[j].F
	}

	// Prefer nodes closer to the goal
	if h[i].H != h[j].H {
		return h[i].H < h[j].H
	}

	// Insertion order keeps equal-cost searches deterministic
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x interface{}) {
	node := x.(*GridNode)
	node.index = len(*h)
	*h = append(*h, node)
}

func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil  // avoid memory leak
	node.index = -1 // for safety
	*h = old[:n-1]
	return node
}

// PriorityQueue is the open list: discovered nodes ordered by ascending F.
//
// It holds at most one entry per node. Callers check GridNode.Opened before
// Push and call Update when an open node's cost improves.
type PriorityQueue struct {
	nodes nodeHeap
	seq   int
}

// NewPriorityQueue creates an empty open list.
func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{}
}

// Push inserts a node.
func (q *PriorityQueue) Push(n *GridNode) {
	q.seq++
	n.seq = q.seq
	heap.Push(&q.nodes, n)
}

// Pop removes and returns the node with the lowest F.
func (q *PriorityQueue) Pop() *GridNode {
	return heap.Pop(&q.nodes).(*GridNode)
}

// Update restores heap order after n's cost changed in place.
func (q *PriorityQueue) Update(n *GridNode) {
	if n.index < 0 || n.index >= len(q.nodes) || q.nodes[n.index] != n {
		return
	}
	heap.Fix(&q.nodes, n.index)
}

// Len returns the number of queued nodes.
func (q *PriorityQueue) Len() int {
	return len(q.nodes)
}

// Empty reports whether the queue has no nodes.
func (q *PriorityQueue) Empty() bool {
	return len(q.nodes) == 0
}

// Clear drops every queued node.
func (q *PriorityQueue) Clear() {
	for _, n := range q.nodes {
		n.index = -1
	}
	q.nodes = nil
	q.seq = 0
}
