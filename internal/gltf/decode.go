package gltf

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"gltfdecimate/internal/mesh"
)

// Decode opens a .glb file and returns the first mesh's first primitive as
// a container-agnostic RawMesh ready for mesh.Store.Seed, plus the parsed
// Document (needed later by Encode to preserve every untouched top-level
// key and to rewrite this same primitive's accessors).
func Decode(path string) (*mesh.RawMesh, *Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	jsonChunk, binChunk, err := readContainer(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read container: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse glTF JSON: %w", err)
	}

	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, nil, ErrNoMesh
	}
	prim := doc.Meshes[0].Primitives[0]

	if prim.Mode != nil && *prim.Mode != primitiveModeTriangles {
		return nil, nil, fmt.Errorf("primitive mode %d: %w", *prim.Mode, ErrUnsupportedPrimitiveMode)
	}

	if prim.Indices == nil {
		return nil, nil, ErrMissingIndices
	}
	indices, err := decodeIndices(&doc, doc.Accessors[*prim.Indices], binChunk)
	if err != nil {
		return nil, nil, fmt.Errorf("decode indices: %w", err)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, ErrMissingPosition
	}
	posRows, err := decodeFloatVec(&doc, doc.Accessors[posIdx], binChunk, 3)
	if err != nil {
		return nil, nil, fmt.Errorf("decode POSITION: %w", err)
	}
	positions := make([]mgl64.Vec3, len(posRows))
	for i, row := range posRows {
		positions[i] = mgl64.Vec3{row[0], row[1], row[2]}
	}

	raw := &mesh.RawMesh{Indices: indices, Positions: positions}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		rows, err := decodeFloatVec(&doc, doc.Accessors[idx], binChunk, 3)
		if err != nil {
			return nil, nil, fmt.Errorf("decode NORMAL: %w", err)
		}
		raw.Normals = make([]mgl64.Vec3, len(rows))
		for i, row := range rows {
			raw.Normals[i] = mgl64.Vec3{row[0], row[1], row[2]}
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		rows, err := decodeFloatVec(&doc, doc.Accessors[idx], binChunk, 2)
		if err != nil {
			return nil, nil, fmt.Errorf("decode TEXCOORD_0: %w", err)
		}
		raw.TexCoords = make([]mgl64.Vec2, len(rows))
		for i, row := range rows {
			raw.TexCoords[i] = mgl64.Vec2{row[0], row[1]}
		}
	}

	if idx, ok := prim.Attributes["TANGENT"]; ok {
		rows, err := decodeFloatVec(&doc, doc.Accessors[idx], binChunk, 4)
		if err != nil {
			return nil, nil, fmt.Errorf("decode TANGENT: %w", err)
		}
		raw.Tangents = make([]mgl64.Vec4, len(rows))
		for i, row := range rows {
			raw.Tangents[i] = mgl64.Vec4{row[0], row[1], row[2], row[3]}
		}
	}

	return raw, &doc, nil
}
