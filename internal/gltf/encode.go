package gltf

import (
	"encoding/json"
	"fmt"

	"gltfdecimate/internal/mesh"
)

// Encode repacks doc's first primitive to reference the decimated mesh in
// store (consistent with snap) and writes a new .glb to path. Every other
// top-level document key — asset, scenes, nodes, materials, samplers, ... —
// round-trips through Document's Extra map unchanged. Accessor and
// bufferView entries are updated in place rather than appended, so indices
// not referenced elsewhere in the document keep their identity.
func Encode(path string, doc *Document, store *mesh.Store, snap mesh.SnapshotResult) error {
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return ErrNoMesh
	}
	prim := &doc.Meshes[0].Primitives[0]

	n := snap.CompactCount
	positions := make([][]float64, n)
	var normals, texcoords, tangents [][]float64
	hasNormal := hasAttr(prim, "NORMAL")
	hasTexCoord := hasAttr(prim, "TEXCOORD_0")
	hasTangent := hasAttr(prim, "TANGENT")
	if hasNormal {
		normals = make([][]float64, n)
	}
	if hasTexCoord {
		texcoords = make([][]float64, n)
	}
	if hasTangent {
		tangents = make([][]float64, n)
	}

	for oldID, compact := range snap.OldToNew {
		if compact == -1 {
			continue
		}
		a := store.VertexAttrs(uint32(oldID))
		positions[compact] = []float64{a.Position.X(), a.Position.Y(), a.Position.Z()}
		if hasNormal {
			normals[compact] = []float64{a.Normal.X(), a.Normal.Y(), a.Normal.Z()}
		}
		if hasTexCoord {
			texcoords[compact] = []float64{a.TexCoord.X(), a.TexCoord.Y()}
		}
		if hasTangent {
			tangents[compact] = []float64{a.Tangent.X(), a.Tangent.Y(), a.Tangent.Z(), a.Tangent.W()}
		}
	}

	indexData, indexComponentType := encodeUint32AsIndices(snap.Indices)
	posData := encodeFloatVec(positions, 3)

	var bin []byte
	offset := 0

	offset, err := rewriteAccessor(doc, prim.Indices, indexData, len(snap.Indices), indexComponentType, "SCALAR", &bin, offset)
	if err != nil {
		return fmt.Errorf("rewrite indices accessor: %w", err)
	}

	posAccIdx := prim.Attributes["POSITION"]
	offset, err = rewriteAccessor(doc, &posAccIdx, posData, n, ComponentFloat, "VEC3", &bin, offset)
	if err != nil {
		return fmt.Errorf("rewrite POSITION accessor: %w", err)
	}

	if hasNormal {
		normAccIdx := prim.Attributes["NORMAL"]
		data := encodeFloatVec(normals, 3)
		offset, err = rewriteAccessor(doc, &normAccIdx, data, n, ComponentFloat, "VEC3", &bin, offset)
		if err != nil {
			return fmt.Errorf("rewrite NORMAL accessor: %w", err)
		}
	}
	if hasTexCoord {
		texAccIdx := prim.Attributes["TEXCOORD_0"]
		data := encodeFloatVec(texcoords, 2)
		offset, err = rewriteAccessor(doc, &texAccIdx, data, n, ComponentFloat, "VEC2", &bin, offset)
		if err != nil {
			return fmt.Errorf("rewrite TEXCOORD_0 accessor: %w", err)
		}
	}
	if hasTangent {
		tanAccIdx := prim.Attributes["TANGENT"]
		data := encodeFloatVec(tangents, 4)
		offset, err = rewriteAccessor(doc, &tanAccIdx, data, n, ComponentFloat, "VEC4", &bin, offset)
		if err != nil {
			return fmt.Errorf("rewrite TANGENT accessor: %w", err)
		}
	}

	if len(doc.Buffers) == 0 {
		doc.Buffers = append(doc.Buffers, Buffer{})
	}
	doc.Buffers[0].ByteLength = len(bin)

	jsonChunk, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal glTF JSON: %w", err)
	}

	return writeContainer(path, jsonChunk, bin)
}

func hasAttr(prim *Primitive, name string) bool {
	_, ok := prim.Attributes[name]
	return ok
}

// rewriteAccessor overwrites the accessor at accIdx (and its bufferView) to
// describe data newly appended to bin at the given offset, returning the
// offset for the next attribute. Byte offsets are kept contiguous and
// 4-byte aligned, matching the glTF 2.0 alignment requirement for
// bufferViews backing vertex/index data.
func rewriteAccessor(doc *Document, accIdx *int, data []byte, count, componentType int, accType string, bin *[]byte, offset int) (int, error) {
	if accIdx == nil {
		return offset, fmt.Errorf("nil accessor index: %w", ErrMissingChunk)
	}
	acc := &doc.Accessors[*accIdx]
	if acc.BufferView == nil {
		return offset, fmt.Errorf("accessor %d has no bufferView: %w", *accIdx, ErrMissingChunk)
	}
	bv := &doc.BufferViews[*acc.BufferView]

	aligned := align4(offset)
	for len(*bin) < aligned {
		*bin = append(*bin, 0)
	}
	*bin = append(*bin, data...)

	acc.Count = count
	acc.ComponentType = componentType
	acc.Type = accType
	acc.ByteOffset = 0
	bv.Buffer = 0
	bv.ByteOffset = aligned
	bv.ByteLength = len(data)

	return aligned + len(data), nil
}

func align4(n int) int {
	if rem := n % 4; rem != 0 {
		return n + (4 - rem)
	}
	return n
}
