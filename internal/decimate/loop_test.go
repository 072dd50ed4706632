package decimate

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"gltfdecimate/internal/mesh"
	"gltfdecimate/internal/quadric"
)

func newDecimatedStore(raw *mesh.RawMesh) (*mesh.Store, *Pool) {
	store := &mesh.Store{}
	store.Seed(raw)
	store.SeedQuadrics()
	pool := Seed(store)
	return store, pool
}

func TestRunUnitTetrahedron(t *testing.T) {
	raw := &mesh.RawMesh{
		Indices: []uint32{
			0, 1, 2,
			0, 3, 1,
			0, 2, 3,
			1, 3, 2,
		},
		Positions: []mgl64.Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
	store, pool := newDecimatedStore(raw)

	target, err := TargetTriangleCount(MethodPercent, 0.5, store.LiveFaceCount())
	if err != nil {
		t.Fatalf("TargetTriangleCount: %v", err)
	}
	if target != 2 {
		t.Fatalf("target = %d, want 2", target)
	}

	res := Run(store, pool, target)
	if res.AchievedFaces != 2 {
		t.Errorf("AchievedFaces = %d, want 2", res.AchievedFaces)
	}

	snap := store.Snapshot()
	if snap.CompactCount > 3 {
		t.Errorf("CompactCount = %d, want <= 3", snap.CompactCount)
	}
	if len(snap.Indices) != res.AchievedFaces*3 {
		t.Errorf("len(Indices) = %d, want %d", len(snap.Indices), res.AchievedFaces*3)
	}
}

func TestSeedFindsVirtualEdgesBetweenDisjointCoincidentTriangles(t *testing.T) {
	// Two triangles with disjoint index sets but nudged-coincident positions
	// (a fraction of epsMerge apart, never exactly 0: the rule is a strict
	// 0 < dist < epsMerge, matching the prototype this was distilled from).
	// No face references both triangles, so without virtual-edge seeding
	// these six vertices would never be considered for contraction together.
	const nudge = epsMerge / 10
	raw := &mesh.RawMesh{
		Indices: []uint32{
			0, 1, 2,
			3, 4, 5,
		},
		Positions: []mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
			{nudge, 0, 0}, {1 + nudge, 0, 0}, {nudge, 1, 0},
		},
	}
	store := &mesh.Store{}
	store.Seed(raw)
	store.SeedQuadrics()

	for _, pair := range [][2]uint32{{0, 3}, {1, 4}, {2, 5}} {
		if store.HasEdge(pair[0], pair[1]) {
			t.Fatalf("vertices %v share no face and must not already be real-edge adjacent", pair)
		}
	}

	pool := Seed(store)
	// 3 real edges per triangle (6 total) plus the 3 virtual pairs above.
	if pool.Len() != 9 {
		t.Errorf("pool.Len() = %d, want 9 (6 real edges + 3 virtual edges)", pool.Len())
	}
}

func TestRunPlanarQuadSplit(t *testing.T) {
	raw := &mesh.RawMesh{
		Indices: []uint32{
			0, 1, 2,
			0, 2, 3,
		},
		Positions: []mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		},
	}
	store, pool := newDecimatedStore(raw)

	target, err := TargetTriangleCount(MethodMax, 1, store.LiveFaceCount())
	if err != nil {
		t.Fatalf("TargetTriangleCount: %v", err)
	}

	res := Run(store, pool, target)
	if res.AchievedFaces != 1 {
		t.Errorf("AchievedFaces = %d, want 1", res.AchievedFaces)
	}

	snap := store.Snapshot()
	if snap.CompactCount != 3 {
		t.Errorf("CompactCount = %d, want 3", snap.CompactCount)
	}
}

func icosahedron() *mesh.RawMesh {
	// Standard golden-ratio icosahedron construction: 12 vertices, 20 faces.
	const phi = 1.6180339887498949

	positions := []mgl64.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	indices := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return &mesh.RawMesh{Indices: indices, Positions: positions}
}

func TestRunIcosahedron(t *testing.T) {
	store, pool := newDecimatedStore(icosahedron())

	if store.LiveFaceCount() != 20 {
		t.Fatalf("seeded face count = %d, want 20", store.LiveFaceCount())
	}

	target, err := TargetTriangleCount(MethodPercent, 0.5, store.LiveFaceCount())
	if err != nil {
		t.Fatalf("TargetTriangleCount: %v", err)
	}
	if target != 10 {
		t.Fatalf("target = %d, want 10", target)
	}

	res := Run(store, pool, target)
	if res.AchievedFaces != 10 {
		t.Errorf("AchievedFaces = %d, want 10", res.AchievedFaces)
	}

	snap := store.Snapshot()
	for _, idx := range snap.Indices {
		orig := -1
		for old, compact := range snap.OldToNew {
			if compact == int32(idx) {
				orig = old
				break
			}
		}
		if orig == -1 {
			t.Fatalf("compact index %d has no originating vertex", idx)
		}
		if !store.IsAlive(uint32(orig)) {
			t.Errorf("snapshot references retired vertex %d", orig)
		}
	}
}

func TestRunDegenerateTriangleDoesNotInflateNeighborQuadrics(t *testing.T) {
	raw := &mesh.RawMesh{
		Indices: []uint32{
			0, 1, 2, // degenerate: collinear, zero area
			0, 1, 3,
		},
		Positions: []mgl64.Vec3{
			{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 1, 0},
		},
	}
	store := &mesh.Store{}
	store.Seed(raw)

	if store.LiveFaceCount() != 2 {
		t.Fatalf("LiveFaceCount = %d, want 2 (a zero-area triangle with distinct indices is kept)", store.LiveFaceCount())
	}

	store.SeedQuadrics()
	q2 := store.Quadric(2)
	if q2 != (quadric.Quadric{}) {
		t.Errorf("vertex 2's quadric = %v, want zero (its only face has zero area)", q2)
	}
}

func TestRunMaxZeroIsNoOp(t *testing.T) {
	store, pool := newDecimatedStore(icosahedron())
	before := store.LiveFaceCount()

	res := Run(store, pool, before)
	if res.AchievedFaces != before {
		t.Errorf("AchievedFaces = %d, want %d (max=0 must be a no-op)", res.AchievedFaces, before)
	}
}

func TestRunSingleTriangleCollapsesInOneStep(t *testing.T) {
	// A single triangle has exactly one face; any edge contraction destroys
	// it, so asking for zero triangles terminates after one contraction
	// with no stale candidates left to chase.
	raw := &mesh.RawMesh{
		Indices:   []uint32{0, 1, 2},
		Positions: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}
	store, pool := newDecimatedStore(raw)

	res := Run(store, pool, 0)
	if res.AchievedFaces != 0 {
		t.Errorf("AchievedFaces = %d, want 0", res.AchievedFaces)
	}
	if res.Exhausted {
		t.Errorf("Exhausted = true, want false: the single contraction should reach the target")
	}
}
