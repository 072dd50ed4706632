package decimate

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// epsMerge is the virtual-edge distance threshold: two vertices not
// connected by any face are still a candidate pair if 0 < dist < epsMerge.
// Hard-coded to match the prototype this was distilled from, which never
// exposes it as a parameter.
const epsMerge = 1e-3

// cellSize is chosen so a 3x3x3 neighborhood of cells always covers epsMerge
// in every direction, with headroom.
const cellSize = epsMerge * 4

// cellEntry stores a packed grid-cell key alongside the vertex id placed in
// that cell, kept in a single slice sorted by key so lookups are a binary
// search instead of a map dereference per cell.
type cellEntry struct {
	key uint64
	id  uint32
}

func gridCell(p mgl64.Vec3) (xi, yi, zi int32) {
	return int32(math.Floor(p.X() / cellSize)),
		int32(math.Floor(p.Y() / cellSize)),
		int32(math.Floor(p.Z() / cellSize))
}

// cellKey packs three 21-bit-range cell indices into a uint64. Mesh
// coordinates are assumed to stay well within the range this affords.
func cellKey(xi, yi, zi int32) uint64 {
	const mask = 0x1FFFFF // 21 bits
	ux := uint64(uint32(xi)) & mask
	uy := uint64(uint32(yi)) & mask
	uz := uint64(uint32(zi)) & mask
	return ux<<42 | uy<<21 | uz
}

// spatialGrid is a flat sorted grid index over vertex positions, used only
// to enumerate virtual-edge candidates at seed time. Adapted from the same
// flat-slice-plus-sort.Search shape used for nearest-road snapping, since no
// example in the retrieval pack demonstrates a third-party spatial index's
// actual call pattern.
type spatialGrid struct {
	entries []cellEntry // sorted by key
}

func buildSpatialGrid(positions []mgl64.Vec3, alive func(id uint32) bool) *spatialGrid {
	entries := make([]cellEntry, 0, len(positions))
	for id, p := range positions {
		if !alive(uint32(id)) {
			continue
		}
		xi, yi, zi := gridCell(p)
		entries = append(entries, cellEntry{key: cellKey(xi, yi, zi), id: uint32(id)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return &spatialGrid{entries: entries}
}

func (g *spatialGrid) cellRange(key uint64) []cellEntry {
	lo := sort.Search(len(g.entries), func(i int) bool { return g.entries[i].key >= key })
	if lo >= len(g.entries) || g.entries[lo].key != key {
		return nil
	}
	hi := sort.Search(len(g.entries), func(i int) bool { return g.entries[i].key > key })
	return g.entries[lo:hi]
}

// virtualPairs returns every unordered pair (u,v), u<v, of distinct vertex
// ids whose positions are strictly within (0, epsMerge) of each other.
func (g *spatialGrid) virtualPairs(positions []mgl64.Vec3) [][2]uint32 {
	var pairs [][2]uint32
	seen := make(map[[2]uint32]struct{})

	for _, e := range g.entries {
		xi, yi, zi := gridCell(positions[e.id])
		for dx := int32(-1); dx <= 1; dx++ {
			for dy := int32(-1); dy <= 1; dy++ {
				for dz := int32(-1); dz <= 1; dz++ {
					for _, other := range g.cellRange(cellKey(xi+dx, yi+dy, zi+dz)) {
						if other.id == e.id {
							continue
						}
						u, v := e.id, other.id
						if u > v {
							u, v = v, u
						}
						key := [2]uint32{u, v}
						if _, dup := seen[key]; dup {
							continue
						}

						dist := positions[u].Sub(positions[v]).Len()
						if dist > 0 && dist < epsMerge {
							seen[key] = struct{}{}
							pairs = append(pairs, key)
						}
					}
				}
			}
		}
	}
	return pairs
}
