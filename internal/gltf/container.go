package gltf

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const glbHeaderSize = 12
const chunkHeaderSize = 8

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type chunkHeader struct {
	Length uint32
	Type   uint32
}

// readContainer splits a .glb file into its raw JSON and BIN chunk payloads.
func readContainer(r io.Reader) (jsonChunk, binChunk []byte, err error) {
	var hdr glbHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("read glb header: %w", err)
	}
	if hdr.Magic != glbMagic {
		return nil, nil, fmt.Errorf("magic %#x: %w", hdr.Magic, ErrBadMagic)
	}
	if hdr.Version != 2 {
		return nil, nil, fmt.Errorf("version %d: %w", hdr.Version, ErrBadVersion)
	}

	for {
		var ch chunkHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("read chunk header: %w", err)
		}

		payload := make([]byte, ch.Length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("read chunk payload: %w", err)
		}

		switch ch.Type {
		case chunkTypeJSON:
			jsonChunk = payload
		case chunkTypeBIN:
			binChunk = payload
		}
	}

	if jsonChunk == nil {
		return nil, nil, fmt.Errorf("JSON chunk: %w", ErrMissingChunk)
	}
	return jsonChunk, binChunk, nil
}

// writeContainer assembles a .glb file from a JSON chunk and a BIN chunk and
// writes it atomically: build in a sibling temp file, then rename over the
// destination, the same pattern used for the on-disk binary format this was
// adapted from.
func writeContainer(path string, jsonChunk, binChunk []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	jsonChunk = pad4(jsonChunk, ' ')
	binChunk = pad4(binChunk, 0)

	total := uint32(glbHeaderSize + chunkHeaderSize + len(jsonChunk))
	if len(binChunk) > 0 {
		total += uint32(chunkHeaderSize + len(binChunk))
	}

	if err := binary.Write(f, binary.LittleEndian, glbHeader{Magic: glbMagic, Version: 2, Length: total}); err != nil {
		return fmt.Errorf("write glb header: %w", err)
	}
	if err := writeChunk(f, chunkTypeJSON, jsonChunk); err != nil {
		return fmt.Errorf("write JSON chunk: %w", err)
	}
	if len(binChunk) > 0 {
		if err := writeChunk(f, chunkTypeBIN, binChunk); err != nil {
			return fmt.Errorf("write BIN chunk: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func writeChunk(w io.Writer, chunkType uint32, payload []byte) error {
	if err := binary.Write(w, binary.LittleEndian, chunkHeader{Length: uint32(len(payload)), Type: chunkType}); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// pad4 right-pads payload to a 4-byte boundary, per the glb chunk alignment
// requirement, using fill as the pad byte (space for JSON, zero for BIN).
func pad4(payload []byte, fill byte) []byte {
	rem := len(payload) % 4
	if rem == 0 {
		return payload
	}
	padded := make([]byte, len(payload)+(4-rem))
	copy(padded, payload)
	for i := len(payload); i < len(padded); i++ {
		padded[i] = fill
	}
	return padded
}
