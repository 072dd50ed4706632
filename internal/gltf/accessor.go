package gltf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// accessorBytes returns the byte range of bin this accessor views, honoring
// bufferView.byteOffset + accessor.byteOffset per the glTF 2.0 spec. A nil
// bufferView (a sparse-only accessor) is not supported; this program's core
// only ever reads accessors that back real geometry.
func accessorBytes(doc *Document, acc Accessor, bin []byte) ([]byte, error) {
	if acc.BufferView == nil {
		return nil, fmt.Errorf("accessor without a bufferView: %w", ErrMissingChunk)
	}
	bv := doc.BufferViews[*acc.BufferView]

	compCount, ok := typeComponentCount[acc.Type]
	if !ok {
		return nil, fmt.Errorf("accessor type %q: %w", acc.Type, ErrUnsupportedComponentType)
	}
	compSize, err := componentSize(acc.ComponentType)
	if err != nil {
		return nil, err
	}

	elemSize := compCount * compSize
	start := bv.ByteOffset + acc.ByteOffset
	end := start + acc.Count*elemSize
	if end > len(bin) {
		return nil, fmt.Errorf("accessor reads past end of BIN chunk: %w", ErrMissingChunk)
	}
	return bin[start:end], nil
}

// decodeIndices reads an indices accessor into a flat uint32 slice,
// widening whatever component type the file used (i8/u8/i16/u16/u32).
func decodeIndices(doc *Document, acc Accessor, bin []byte) ([]uint32, error) {
	data, err := accessorBytes(doc, acc, bin)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case ComponentUnsignedByte, ComponentByte:
		for i := 0; i < acc.Count; i++ {
			out[i] = uint32(data[i])
		}
	case ComponentUnsignedShort, ComponentShort:
		for i := 0; i < acc.Count; i++ {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case ComponentUnsignedInt:
		for i := 0; i < acc.Count; i++ {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("indices component type %d: %w", acc.ComponentType, ErrUnsupportedComponentType)
	}
	return out, nil
}

// decodeFloatVec reads a VEC-typed float accessor into rows of width
// components each. Only ComponentFloat is accepted: the core never reads
// normalized-integer attributes.
func decodeFloatVec(doc *Document, acc Accessor, bin []byte, width int) ([][]float64, error) {
	if acc.ComponentType != ComponentFloat {
		return nil, fmt.Errorf("attribute component type %d: %w", acc.ComponentType, ErrUnsupportedComponentType)
	}
	data, err := accessorBytes(doc, acc, bin)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, acc.Count)
	for i := 0; i < acc.Count; i++ {
		row := make([]float64, width)
		for c := 0; c < width; c++ {
			bits := binary.LittleEndian.Uint32(data[(i*width+c)*4:])
			row[c] = float64(math.Float32frombits(bits))
		}
		out[i] = row
	}
	return out, nil
}

// encodeUint32AsIndices packs indices as unsigned 16-bit when every value
// fits, else as unsigned 32-bit; 8-bit indices are never written.
func encodeUint32AsIndices(indices []uint32) (data []byte, componentType int) {
	var maxVal uint32
	for _, v := range indices {
		if v > maxVal {
			maxVal = v
		}
	}

	switch {
	case maxVal <= math.MaxUint16:
		componentType = ComponentUnsignedShort
		data = make([]byte, len(indices)*2)
		for i, v := range indices {
			binary.LittleEndian.PutUint16(data[i*2:], uint16(v))
		}
	default:
		componentType = ComponentUnsignedInt
		data = make([]byte, len(indices)*4)
		for i, v := range indices {
			binary.LittleEndian.PutUint32(data[i*4:], v)
		}
	}
	return data, componentType
}

func encodeFloatVec(rows [][]float64, width int) []byte {
	data := make([]byte, len(rows)*width*4)
	for i, row := range rows {
		for c := 0; c < width; c++ {
			bits := math.Float32bits(float32(row[c]))
			binary.LittleEndian.PutUint32(data[(i*width+c)*4:], bits)
		}
	}
	return data
}
