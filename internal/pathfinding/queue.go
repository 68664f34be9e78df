package pathfinding

type pqItem struct {
	node cell
	g    float64
	f    float64
}

// priorityQueue orders by estimated total cost, then grid x, then grid y,
// so equal-cost ties resolve the same way on every run.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.node.gx != b.node.gx {
		return a.node.gx < b.node.gx
	}
	return a.node.gy < b.node.gy
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
