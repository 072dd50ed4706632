package decimate

import "container/heap"

// candidate is one pending contraction of v into u, canonical u<v at
// enqueue time. uVersion/vVersion snapshot the Mesh Store's per-vertex
// version counters at the moment cost was computed; the pop step compares
// them against the live counters to detect staleness instead of using a
// heap decrease-key (spec section 9).
type candidate struct {
	u, v     uint32
	cost     float64
	uVersion uint32
	vVersion uint32
	index    int
}

// pqueue is a min-heap on cost, with lexicographic (u,v) as the
// deterministic tie-break so identical input always contracts in the same
// order. Shaped directly on the lazy-reprioritization priority queue used
// for contraction ordering: entries are never mutated in place and removed
// by decrease-key, only popped, checked for staleness, and possibly
// replaced by a freshly pushed entry.
type pqueue []*candidate

func (pq pqueue) Len() int { return len(pq) }

func (pq pqueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	if pq[i].u != pq[j].u {
		return pq[i].u < pq[j].u
	}
	return pq[i].v < pq[j].v
}

func (pq pqueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pqueue) Push(x any) {
	c := x.(*candidate)
	c.index = len(*pq)
	*pq = append(*pq, c)
}

func (pq *pqueue) Pop() any {
	old := *pq
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	c.index = -1
	*pq = old[:n-1]
	return c
}

// Pool holds every pending contraction candidate for a decimation session.
type Pool struct {
	pq pqueue
}

// NewPool returns an empty candidate pool.
func NewPool() *Pool {
	p := &Pool{}
	heap.Init(&p.pq)
	return p
}

// Push enqueues a single scored candidate. uVersion/vVersion must be the
// Mesh Store's version counters for u and v at scoring time.
func (p *Pool) Push(u, v uint32, cost float64, uVersion, vVersion uint32) {
	if u > v {
		u, v = v, u
	}
	heap.Push(&p.pq, &candidate{u: u, v: v, cost: cost, uVersion: uVersion, vVersion: vVersion})
}

// Pop removes and returns the minimum-cost candidate, or ok=false if the
// pool is empty. The caller is responsible for the freshness check against
// current vertex versions and aliveness (spec section 4.3): Pop itself does
// no filtering, since it has no view of the Mesh Store.
func (p *Pool) Pop() (u, v uint32, cost float64, uVersion, vVersion uint32, ok bool) {
	if p.pq.Len() == 0 {
		return 0, 0, 0, 0, 0, false
	}
	c := heap.Pop(&p.pq).(*candidate)
	return c.u, c.v, c.cost, c.uVersion, c.vVersion, true
}

// Len reports the number of candidates currently in the pool, stale ones
// included.
func (p *Pool) Len() int { return p.pq.Len() }
