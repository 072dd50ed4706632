// Package mesh implements the authoritative indexed mesh store: vertex and
// face adjacency, attribute storage, and the single primitive the
// decimation loop needs — applying a vertex-pair contraction and keeping
// every invariant in spec.md section 3 intact afterward.
package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"gltfdecimate/internal/quadric"
)

// Attrs holds the per-vertex attributes the core reads and writes. Tangent
// is carried through but never blended by the store itself — the
// contraction loop decides the blend rule (spec.md section 4.4) and hands
// the store the result.
type Attrs struct {
	Position   mgl64.Vec3
	Normal     mgl64.Vec3
	TexCoord   mgl64.Vec2
	Tangent    mgl64.Vec4
	HasTangent bool
}

// vertex is one entry in the graveyard-slot vertex array. Ids are stable
// indices into Store.vertices for the lifetime of a decimation session;
// retired vertices keep their slot rather than being compacted away.
type vertex struct {
	Attrs
	Q       quadric.Quadric
	Alive   bool
	Version uint32 // bumped whenever this vertex's ring (adjacency or attrs/Q) changes

	edges map[uint32]struct{} // neighbor vertex ids — incident_edges, keyed by the *other* endpoint
	faces map[uint32]struct{} // faceIDs incident on this vertex — incident_faces
}

// face is an ordered vertex triple. Faces are created only at Seed time and
// thereafter only destroyed, never created (spec.md section 3, Lifecycle).
type face struct {
	a, b, c uint32
	alive   bool
}

// RawMesh is the decoded, container-agnostic input to Seed: a flat
// triangle-list index buffer plus parallel attribute slices indexed by the
// same vertex id space the indices reference.
type RawMesh struct {
	Indices   []uint32
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3 // nil if the source had no NORMAL attribute
	TexCoords []mgl64.Vec2 // nil if the source had no TEXCOORD_0 attribute
	Tangents  []mgl64.Vec4 // nil if the source had no TANGENT attribute
}

// Store is the authoritative indexed mesh: vertices, faces, and the
// adjacency needed to apply contractions and answer ring queries.
type Store struct {
	vertices []vertex
	faces    []face

	liveFaces int
	liveVerts int
}

// Seed builds vertices, faces, and adjacency from a triangle-list index
// buffer. Degenerate input triangles (two or more equal indices) are
// discarded, matching spec.md section 4.1.
func (s *Store) Seed(raw *RawMesh) {
	n := len(raw.Positions)
	s.vertices = make([]vertex, n)
	for i := range s.vertices {
		v := &s.vertices[i]
		v.Alive = true
		v.Position = raw.Positions[i]
		if raw.Normals != nil {
			v.Normal = raw.Normals[i]
		}
		if raw.TexCoords != nil {
			v.TexCoord = raw.TexCoords[i]
		}
		if raw.Tangents != nil {
			v.Tangent = raw.Tangents[i]
			v.HasTangent = true
		}
		v.edges = make(map[uint32]struct{})
		v.faces = make(map[uint32]struct{})
	}
	s.liveVerts = n

	s.faces = make([]face, 0, len(raw.Indices)/3)
	for i := 0; i+2 < len(raw.Indices); i += 3 {
		a, b, c := raw.Indices[i], raw.Indices[i+1], raw.Indices[i+2]
		if a == b || b == c || a == c {
			continue // degenerate triangle: discarded per spec.md section 4.1
		}

		fid := uint32(len(s.faces))
		s.faces = append(s.faces, face{a: a, b: b, c: c, alive: true})
		s.liveFaces++

		s.vertices[a].faces[fid] = struct{}{}
		s.vertices[b].faces[fid] = struct{}{}
		s.vertices[c].faces[fid] = struct{}{}

		s.addEdge(a, b)
		s.addEdge(b, c)
		s.addEdge(c, a)
	}
}

func (s *Store) addEdge(u, v uint32) {
	s.vertices[u].edges[v] = struct{}{}
	s.vertices[v].edges[u] = struct{}{}
}

// NumVertices returns the total vertex slot count, including retired
// (graveyard) slots.
func (s *Store) NumVertices() int { return len(s.vertices) }

// LiveFaceCount returns the current live triangle count T.
func (s *Store) LiveFaceCount() int { return s.liveFaces }

// IsAlive reports whether vertex id is alive.
func (s *Store) IsAlive(id uint32) bool { return s.vertices[id].Alive }

// Version returns the vertex's freshness counter, bumped on every
// contraction that changes its ring.
func (s *Store) Version(id uint32) uint32 { return s.vertices[id].Version }

// VertexAttrs returns vertex id's current attributes.
func (s *Store) VertexAttrs(id uint32) Attrs { return s.vertices[id].Attrs }

// Quadric returns vertex id's current accumulated quadric.
func (s *Store) Quadric(id uint32) quadric.Quadric { return s.vertices[id].Q }

// SetQuadric overwrites vertex id's quadric. SeedQuadrics does not go
// through it; it writes each vertex's quadric directly.
func (s *Store) SetQuadric(id uint32, q quadric.Quadric) { s.vertices[id].Q = q }

// Neighbors returns a snapshot of vertex id's current edge-adjacent
// neighbor ids.
func (s *Store) Neighbors(id uint32) []uint32 {
	e := s.vertices[id].edges
	out := make([]uint32, 0, len(e))
	for w := range e {
		out = append(out, w)
	}
	return out
}

// HasEdge reports whether the real (face-backed) edge {u,v} currently
// exists.
func (s *Store) HasEdge(u, v uint32) bool {
	_, ok := s.vertices[u].edges[v]
	return ok
}

// RecomputeQuadric sums the fundamental quadric of every face currently
// incident on id, from scratch, using current vertex positions. Spec.md
// section 8 requires this to match the incrementally maintained Quadric
// within a small relative tolerance at any point in a run; it's provided
// for that invariant check and isn't used by the hot contraction path.
func (s *Store) RecomputeQuadric(id uint32) quadric.Quadric {
	var q quadric.Quadric
	for fid := range s.vertices[id].faces {
		f := s.faces[fid]
		q = q.Add(quadric.FacePlaneQuadric(s.vertices[f.a].Position, s.vertices[f.b].Position, s.vertices[f.c].Position))
	}
	return q
}

// SeedQuadrics sets every alive vertex's quadric to the sum of its incident
// faces' fundamental quadrics. Called once, after Seed, before the
// Candidate Pool is built (spec.md section 4.2).
func (s *Store) SeedQuadrics() {
	for id := range s.vertices {
		if !s.vertices[id].Alive {
			continue
		}
		s.vertices[id].Q = s.RecomputeQuadric(uint32(id))
	}
}

// ContractionResult reports what Apply changed, for the contraction loop
// to re-score.
type ContractionResult struct {
	RetiredFaces  []uint32 // faces removed by this contraction
	ModifiedFaces []uint32 // live faces now incident on u that referenced v
	Ring          []uint32 // former neighbors of v (excluding u); their edge to v now points at u
	SurvivorDied  bool     // true if u itself was retired (lost its last face)
}

// Apply performs the atomic contraction of v into u: u adopts newAttrs and
// newQ, v is retired, and every face/edge referencing v is rewritten per
// the rules in spec.md section 4.1. u and v must both be alive and
// distinct; the caller (the contraction loop) is responsible for checking
// this before calling Apply, since a contraction is pure bookkeeping and
// cannot fail once that precondition holds (spec.md section 4.4).
func (s *Store) Apply(u, v uint32, newAttrs Attrs, newQ quadric.Quadric) ContractionResult {
	var res ContractionResult

	vFaces := s.vertices[v].faces
	faceIDs := make([]uint32, 0, len(vFaces))
	for fid := range vFaces {
		faceIDs = append(faceIDs, fid)
	}

	for _, fid := range faceIDs {
		f := &s.faces[fid]
		switch v {
		case f.a:
			f.a = u
		case f.b:
			f.b = u
		case f.c:
			f.c = u
		}

		if f.a == f.b || f.b == f.c || f.a == f.c {
			// Retiring this face: it's no longer incident on any of its
			// (now possibly-repeated) vertex ids.
			f.alive = false
			s.liveFaces--
			res.RetiredFaces = append(res.RetiredFaces, fid)
			for _, w := range [3]uint32{f.a, f.b, f.c} {
				delete(s.vertices[w].faces, fid)
			}
			continue
		}

		s.vertices[u].faces[fid] = struct{}{}
		res.ModifiedFaces = append(res.ModifiedFaces, fid)
	}

	ringSet := make(map[uint32]struct{})
	for w := range s.vertices[v].edges {
		if w == u {
			continue // the contracted edge itself: dropped entirely
		}
		delete(s.vertices[w].edges, v)
		if _, exists := s.vertices[w].edges[u]; !exists {
			s.vertices[w].edges[u] = struct{}{}
			s.vertices[u].edges[w] = struct{}{}
		}
		ringSet[w] = struct{}{}
	}
	delete(s.vertices[u].edges, v)

	ring := make([]uint32, 0, len(ringSet))
	for w := range ringSet {
		ring = append(ring, w)
	}
	res.Ring = ring

	// Retire v.
	s.vertices[v].Alive = false
	s.vertices[v].edges = nil
	s.vertices[v].faces = nil
	s.liveVerts--

	// u adopts the blended attributes and combined quadric.
	s.vertices[u].Attrs = newAttrs
	s.vertices[u].Q = newQ
	s.vertices[u].Version++
	for _, w := range ring {
		s.vertices[w].Version++
	}

	// If contracting retired u's last incident face, u is retired as well
	// (spec.md section 4.4, edge cases). Any edges u still has (to
	// vertices other than v) must be removed from those neighbors too, so
	// no live edge/face ever references a retired vertex.
	if len(s.vertices[u].faces) == 0 {
		for w := range s.vertices[u].edges {
			delete(s.vertices[w].edges, u)
		}
		s.vertices[u].Alive = false
		s.vertices[u].edges = nil
		s.vertices[u].faces = nil
		s.liveVerts--
		res.SurvivorDied = true
	}

	return res
}

// SnapshotResult is the output of Snapshot: a compacted triangle-list index
// buffer plus the id remapping needed to repack attribute buffers.
type SnapshotResult struct {
	Indices []uint32
	// OldToNew maps an original vertex id to its compact id. Retired
	// vertices map to -1 and never appear in Indices.
	OldToNew []int32
	// CompactCount is the number of surviving vertices, i.e. len(Indices
	// deduplicated) — the size downstream attribute buffers should be.
	CompactCount int
}

// Snapshot emits a triangle-list index buffer consistent with the live
// faces (in face-array order, which is "any order" per spec.md section
// 4.1), plus a compacted id -> compact_id mapping so attribute buffers can
// be repacked without graveyard gaps.
func (s *Store) Snapshot() SnapshotResult {
	oldToNew := make([]int32, len(s.vertices))
	for i := range oldToNew {
		oldToNew[i] = -1
	}

	indices := make([]uint32, 0, s.liveFaces*3)
	next := int32(0)

	assign := func(id uint32) uint32 {
		if oldToNew[id] == -1 {
			oldToNew[id] = next
			next++
		}
		return uint32(oldToNew[id])
	}

	for i := range s.faces {
		f := &s.faces[i]
		if !f.alive {
			continue
		}
		indices = append(indices, assign(f.a), assign(f.b), assign(f.c))
	}

	return SnapshotResult{
		Indices:      indices,
		OldToNew:     oldToNew,
		CompactCount: int(next),
	}
}
