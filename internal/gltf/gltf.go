// Package gltf reads and writes the binary glTF (.glb) container this
// program's core operates on: a 12-byte header, a JSON chunk describing the
// scene, and a BIN chunk holding the raw accessor data. It is out of scope
// for the decimation core itself but is what makes the CLI runnable against
// real files.
package gltf

import "errors"

// Chunk type tags, stored little-endian as the 4 ASCII bytes of the name.
const (
	chunkTypeJSON = 0x4E4F534A // "JSON"
	chunkTypeBIN  = 0x004E4942 // "BIN\x00"
)

const glbMagic = 0x46546C67 // "glTF"

var (
	ErrBadMagic                 = errors.New("gltf: not a binary glTF file")
	ErrBadVersion               = errors.New("gltf: unsupported glb version")
	ErrMissingChunk             = errors.New("gltf: missing required chunk")
	ErrMissingIndices           = errors.New("gltf: primitive has no indices accessor")
	ErrMissingPosition          = errors.New("gltf: primitive has no POSITION accessor")
	ErrUnsupportedComponentType = errors.New("gltf: unsupported accessor component type")
	ErrUnsupportedPrimitiveMode = errors.New("gltf: unsupported primitive mode, only triangles are supported")
	ErrNoMesh                   = errors.New("gltf: document has no mesh primitives")
)

// Accessor component type codes (section 5.1 of the glTF 2.0 spec).
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

func componentSize(componentType int) (int, error) {
	switch componentType {
	case ComponentByte, ComponentUnsignedByte:
		return 1, nil
	case ComponentShort, ComponentUnsignedShort:
		return 2, nil
	case ComponentUnsignedInt, ComponentFloat:
		return 4, nil
	default:
		return 0, ErrUnsupportedComponentType
	}
}

// typeComponentCount maps an accessor "type" string to its component count.
var typeComponentCount = map[string]int{
	"SCALAR": 1,
	"VEC2":   2,
	"VEC3":   3,
	"VEC4":   4,
	"MAT2":   4,
	"MAT3":   9,
	"MAT4":   16,
}

const primitiveModeTriangles = 4
