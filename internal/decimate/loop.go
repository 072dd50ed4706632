package decimate

import (
	"log"

	"gltfdecimate/internal/mesh"
)

// Result summarizes a completed contraction loop run.
type Result struct {
	AchievedFaces int  // live triangle count when the loop stopped
	Exhausted     bool // true if the pool ran dry before reaching the target
}

// Run repeatedly pops the minimum-cost valid candidate, applies it to store,
// and rescoes the affected ring, until store's live triangle count reaches
// target or the pool is exhausted of valid candidates (spec section 4.4).
func Run(store *mesh.Store, pool *Pool, target int) Result {
	t0 := store.LiveFaceCount()
	logInterval := adaptiveLogInterval(t0 - target)
	contractions := 0

	for store.LiveFaceCount() > target {
		u, v, _, uVer, vVer, ok := pool.Pop()
		if !ok {
			log.Printf("candidate pool exhausted at %d/%d triangles", store.LiveFaceCount(), target)
			return Result{AchievedFaces: store.LiveFaceCount(), Exhausted: true}
		}

		if !store.IsAlive(u) || !store.IsAlive(v) {
			continue // one endpoint already retired by an earlier contraction
		}
		if store.Version(u) != uVer || store.Version(v) != vVer {
			continue // stale: ring changed since this candidate was scored
		}
		if u == v {
			continue // never contract a vertex into itself
		}

		newAttrs := blendAttrs(store.VertexAttrs(u), store.VertexAttrs(v))
		newQ := store.Quadric(u).Add(store.Quadric(v))

		res := store.Apply(u, v, newAttrs, newQ)
		contractions++

		if !res.SurvivorDied {
			rescoreRing(pool, store, u, res.Ring)
		}

		if logInterval > 0 && contractions%logInterval == 0 {
			log.Printf("contracted %d pairs, %d/%d triangles remaining", contractions, store.LiveFaceCount(), target)
		}
	}

	log.Printf("decimation complete: %d contractions, %d triangles (target %d)", contractions, store.LiveFaceCount(), target)
	return Result{AchievedFaces: store.LiveFaceCount(), Exhausted: false}
}

// rescoreRing pushes a fresh candidate for every edge still incident on the
// surviving vertex u after a contraction, and for every other edge of each
// ring vertex, whose version the contraction bumped (spec section 4.3's
// rescore_ring). Stale entries left behind in the heap are filtered out
// lazily at pop time, never removed here.
func rescoreRing(pool *Pool, store *mesh.Store, u uint32, ring []uint32) {
	for _, w := range store.Neighbors(u) {
		pushCandidate(pool, store, u, w)
	}
	for _, w := range ring {
		for _, x := range store.Neighbors(w) {
			if x != u {
				pushCandidate(pool, store, w, x)
			}
		}
	}
}

// blendAttrs implements the Contraction Loop's attribute blend rule (spec
// section 4.4): position and normal and texcoord0 are arithmetic means,
// tangent passes through from the surviving vertex u unchanged.
func blendAttrs(u, v mesh.Attrs) mesh.Attrs {
	return mesh.Attrs{
		Position:   midpoint(u.Position, v.Position),
		Normal:     u.Normal.Add(v.Normal).Mul(0.5),
		TexCoord:   u.TexCoord.Add(v.TexCoord).Mul(0.5),
		Tangent:    u.Tangent,
		HasTangent: u.HasTangent,
	}
}

// adaptiveLogInterval picks one progress-logging interval for the whole run,
// scaled to the number of contractions this run expects to perform; the
// interval stays the same as the run proceeds.
func adaptiveLogInterval(expected int) int {
	switch {
	case expected <= 0:
		return 0
	case expected < 100:
		return 10
	case expected < 10_000:
		return 1000
	default:
		return 10_000
	}
}
