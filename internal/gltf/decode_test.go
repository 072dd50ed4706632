package gltf

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"
)

// buildTriangleGLB writes a minimal single-triangle .glb (indices + POSITION
// only) to dir/name and returns its path.
func buildTriangleGLB(t *testing.T, dir, name string) string {
	t.Helper()

	indexBytes := make([]byte, 6)
	binary.LittleEndian.PutUint16(indexBytes[0:], 0)
	binary.LittleEndian.PutUint16(indexBytes[2:], 1)
	binary.LittleEndian.PutUint16(indexBytes[4:], 2)

	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	posBytes := make([]byte, 36)
	for i, p := range positions {
		binary.LittleEndian.PutUint32(posBytes[i*12:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(posBytes[i*12+4:], math.Float32bits(p[1]))
		binary.LittleEndian.PutUint32(posBytes[i*12+8:], math.Float32bits(p[2]))
	}

	bin := make([]byte, 8+36)
	copy(bin, indexBytes)
	copy(bin[8:], posBytes)

	indicesAccessor := 0
	doc := Document{
		Accessors: []Accessor{
			{BufferView: intPtr(0), ComponentType: ComponentUnsignedShort, Count: 3, Type: "SCALAR"},
			{BufferView: intPtr(1), ComponentType: ComponentFloat, Count: 3, Type: "VEC3"},
		},
		BufferViews: []BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 6},
			{Buffer: 0, ByteOffset: 8, ByteLength: 36},
		},
		Buffers: []Buffer{{ByteLength: len(bin)}},
		Meshes: []Mesh{{
			Primitives: []Primitive{{
				Attributes: map[string]int{"POSITION": 1},
				Indices:    &indicesAccessor,
			}},
		}},
	}

	jsonChunk, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal doc: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := writeContainer(path, jsonChunk, bin); err != nil {
		t.Fatalf("writeContainer: %v", err)
	}
	return path
}

func intPtr(i int) *int { return &i }

func TestDecodeSingleTriangle(t *testing.T) {
	path := buildTriangleGLB(t, t.TempDir(), "tri.glb")

	raw, doc, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(raw.Indices) != 3 {
		t.Fatalf("len(Indices) = %d, want 3", len(raw.Indices))
	}
	if len(raw.Positions) != 3 {
		t.Fatalf("len(Positions) = %d, want 3", len(raw.Positions))
	}
	if raw.Positions[1].X() != 1 {
		t.Errorf("Positions[1].X() = %v, want 1", raw.Positions[1].X())
	}
	if len(doc.Meshes) != 1 {
		t.Fatalf("expected the document to carry the decoded mesh forward")
	}
}

func TestDecodeRejectsMissingPosition(t *testing.T) {
	indexBytes := make([]byte, 6)
	doc := Document{
		Accessors:   []Accessor{{BufferView: intPtr(0), ComponentType: ComponentUnsignedShort, Count: 3, Type: "SCALAR"}},
		BufferViews: []BufferView{{Buffer: 0, ByteLength: 6}},
		Buffers:     []Buffer{{ByteLength: 6}},
		Meshes: []Mesh{{
			Primitives: []Primitive{{Attributes: map[string]int{}, Indices: intPtr(0)}},
		}},
	}
	jsonChunk, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal doc: %v", err)
	}

	path := filepath.Join(t.TempDir(), "noposition.glb")
	if err := writeContainer(path, jsonChunk, indexBytes); err != nil {
		t.Fatalf("writeContainer: %v", err)
	}

	if _, _, err := Decode(path); err == nil {
		t.Fatalf("expected an error for a primitive missing POSITION")
	}
}
