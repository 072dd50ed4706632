package gltf

import "encoding/json"

// Document is the top-level glTF JSON structure. Fields this package never
// reads or rewrites (asset, scenes, nodes, materials, samplers, images,
// textures, skins, animations, cameras, extensions...) are preserved via
// Extra, a catch-all of whatever top-level keys json.RawMessage didn't get
// assigned to a named field, so Encode can round-trip them byte-for-byte in
// content.
type Document struct {
	Accessors   []Accessor             `json:"accessors,omitempty"`
	BufferViews []BufferView           `json:"bufferViews,omitempty"`
	Buffers     []Buffer               `json:"buffers,omitempty"`
	Meshes      []Mesh                 `json:"meshes,omitempty"`
	Extra       map[string]json.RawMessage `json:"-"`
}

// Mesh is a glTF mesh: a list of primitives, each an independent draw call.
// This package only ever reads and rewrites Primitives[0].
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
	Name       string      `json:"name,omitempty"`
}

// Primitive names the accessors backing one triangle list.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
	Material   *int           `json:"material,omitempty"`
}

// Accessor describes a typed view over a bufferView's bytes.
type Accessor struct {
	BufferView    *int   `json:"bufferView,omitempty"`
	ByteOffset    int    `json:"byteOffset,omitempty"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
	Normalized    bool   `json:"normalized,omitempty"`
}

// BufferView is a contiguous byte range within a Buffer.
type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset,omitempty"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride,omitempty"`
	Target     int `json:"target,omitempty"`
}

// Buffer describes the BIN chunk (or, rarely, an external/data URI, which
// this package does not support: it only ever produces and consumes the
// embedded-BIN-chunk form).
type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri,omitempty"`
}

// MarshalJSON merges the named fields back with whatever else was in Extra,
// so keys this package doesn't model (asset, scenes, nodes, ...) survive a
// decode/encode round trip unchanged.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+4)
	for k, v := range d.Extra {
		out[k] = v
	}

	type named struct {
		Accessors   []Accessor   `json:"accessors,omitempty"`
		BufferViews []BufferView `json:"bufferViews,omitempty"`
		Buffers     []Buffer     `json:"buffers,omitempty"`
		Meshes      []Mesh       `json:"meshes,omitempty"`
	}
	raw, err := json.Marshal(named{d.Accessors, d.BufferViews, d.Buffers, d.Meshes})
	if err != nil {
		return nil, err
	}
	var named2 map[string]json.RawMessage
	if err := json.Unmarshal(raw, &named2); err != nil {
		return nil, err
	}
	for k, v := range named2 {
		out[k] = v
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the named fields this package understands and
// stashes every other top-level key in Extra untouched.
func (d *Document) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	type named struct {
		Accessors   []Accessor   `json:"accessors,omitempty"`
		BufferViews []BufferView `json:"bufferViews,omitempty"`
		Buffers     []Buffer     `json:"buffers,omitempty"`
		Meshes      []Mesh       `json:"meshes,omitempty"`
	}
	var n named
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	d.Accessors, d.BufferViews, d.Buffers, d.Meshes = n.Accessors, n.BufferViews, n.Buffers, n.Meshes

	for _, known := range []string{"accessors", "bufferViews", "buffers", "meshes"} {
		delete(all, known)
	}
	d.Extra = all
	return nil
}
