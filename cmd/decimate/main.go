// Command decimate simplifies a binary glTF (.glb) mesh by quadric-error-
// metric edge collapse until a target triangle count is reached.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gltfdecimate/internal/decimate"
	"gltfdecimate/internal/gltf"
	"gltfdecimate/internal/mesh"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: decimate <input.glb> <percent|max> <limit>")
		os.Exit(1)
	}
	inputPath := os.Args[1]
	method := decimate.Method(os.Args[2])
	limit, err := strconv.ParseFloat(os.Args[3], 64)
	if err != nil {
		log.Fatalf("invalid limit %q: %v", os.Args[3], err)
	}

	start := time.Now()

	log.Printf("Decoding %s...", inputPath)
	raw, doc, err := gltf.Decode(inputPath)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}
	log.Printf("Decoded %d vertices, %d indices", len(raw.Positions), len(raw.Indices))

	store := &mesh.Store{}
	store.Seed(raw)
	log.Printf("Seeded mesh store: %d vertices, %d faces", store.NumVertices(), store.LiveFaceCount())

	store.SeedQuadrics()

	target, err := decimate.TargetTriangleCount(method, limit, store.LiveFaceCount())
	if err != nil {
		log.Fatalf("stop criterion: %v", err)
	}
	log.Printf("Target triangle count: %d (method=%s limit=%v)", target, method, limit)

	pool := decimate.Seed(store)
	log.Printf("Seeded %d candidate contractions", pool.Len())

	result := decimate.Run(store, pool, target)
	if result.Exhausted {
		log.Printf("warning: candidate pool exhausted at %d triangles, short of target %d", result.AchievedFaces, target)
	}

	snap := store.Snapshot()

	outputPath := outputPathFor(inputPath)
	log.Printf("Encoding %s...", outputPath)
	if err := gltf.Encode(outputPath, doc, store, snap); err != nil {
		log.Fatalf("encode: %v", err)
	}

	info, statErr := os.Stat(outputPath)
	size := int64(0)
	if statErr == nil {
		size = info.Size()
	}
	log.Printf("Done in %s. Output: %s (%d triangles, %.1f KB)",
		time.Since(start).Round(time.Millisecond), outputPath, result.AchievedFaces, float64(size)/1024)
}

// outputPathFor derives the decimated output path by inserting a suffix
// before the .glb extension, so the CLI never overwrites its own input.
func outputPathFor(inputPath string) string {
	const ext = ".glb"
	if len(inputPath) > len(ext) && inputPath[len(inputPath)-len(ext):] == ext {
		return inputPath[:len(inputPath)-len(ext)] + ".decimated.glb"
	}
	return inputPath + ".decimated.glb"
}
