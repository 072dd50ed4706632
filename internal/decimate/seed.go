package decimate

import (
	"github.com/go-gl/mathgl/mgl64"

	"gltfdecimate/internal/mesh"
)

// Seed builds a fully populated candidate pool from a Mesh Store that has
// already had its per-vertex quadrics seeded: one candidate per canonical
// face-backed edge, plus one per virtual edge discovered by the spatial
// grid (spec section 4.3).
func Seed(store *mesh.Store) *Pool {
	pool := NewPool()

	positions := make([]mgl64.Vec3, store.NumVertices())
	alive := make([]bool, store.NumVertices())
	for id := uint32(0); id < uint32(store.NumVertices()); id++ {
		alive[id] = store.IsAlive(id)
		if alive[id] {
			positions[id] = store.VertexAttrs(id).Position
		}
	}

	for u := uint32(0); u < uint32(store.NumVertices()); u++ {
		if !alive[u] {
			continue
		}
		for _, v := range store.Neighbors(u) {
			if u >= v {
				continue // canonical direction u<v; the other endpoint visits this pair too
			}
			pushCandidate(pool, store, u, v)
		}
	}

	grid := buildSpatialGrid(positions, func(id uint32) bool { return alive[id] })
	for _, pair := range grid.virtualPairs(positions) {
		u, v := pair[0], pair[1]
		if store.HasEdge(u, v) {
			continue // already seeded as a real edge above
		}
		pushCandidate(pool, store, u, v)
	}

	return pool
}

func pushCandidate(pool *Pool, store *mesh.Store, u, v uint32) {
	q := store.Quadric(u).Add(store.Quadric(v))
	pu, pv := store.VertexAttrs(u).Position, store.VertexAttrs(v).Position
	mid := midpoint(pu, pv)
	cost := q.Eval(mid.X(), mid.Y(), mid.Z())
	pool.Push(u, v, cost, store.Version(u), store.Version(v))
}

func midpoint(a, b mgl64.Vec3) mgl64.Vec3 {
	return a.Add(b).Mul(0.5)
}
