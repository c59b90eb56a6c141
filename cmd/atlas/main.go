package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subdiv-refiner/internal/atlas"
	"subdiv-refiner/internal/refiner"
	"subdiv-refiner/internal/texture"
	"subdiv-refiner/internal/wavefront"
)

func main() {
	maxLevel := flag.Int("level", 2, "Maximum refinement level")
	targetLevel := flag.Int("target", 0, "Level to extract (default: 1)")
	size := flag.Int("size", 512, "Atlas width in pixels")
	supersample := flag.Int("supersample", 2, "Supersample factor")
	format := flag.String("format", "webp", "Output format: webp or tga")
	texPath := flag.String("texture", "", "Reference texture; emits one sub-rect tile per quad")
	tileSize := flag.Int("tile-size", 64, "Tile width when -texture is set")
	out := flag.String("out", "", "Output path (default: <mesh>.atlas.<format>)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: atlas [flags] mesh.obj")
		os.Exit(1)
	}
	path := flag.Arg(0)

	topo, positions, err := wavefront.Parse(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	r := refiner.New(refiner.Options{MaxLevel: *maxLevel, TargetLevel: *targetLevel})
	if err := r.Initialize(topo, positions); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rects, faces, err := r.GetRefinedPtexUVs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	img, err := atlas.Render(r.Hierarchy().PtexFaces, rects, faces, atlas.Options{
		Size:        *size,
		Supersample: *supersample,
		DrawGrid:    true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".atlas." + *format
	}
	if err := atlas.WriteImage(outPath, *format, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("atlas: %s (%d quads over %d ptex faces)\n",
		outPath, len(faces), r.Hierarchy().PtexFaces)

	if *texPath == "" {
		return
	}

	// Ptex addressing demo: crop every quad's sub-domain out of the
	// reference texture. All quads sample the same per-face texture.
	tex, err := texture.Load(*texPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tileDir := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".tiles"
	if err := os.MkdirAll(tileDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for i, rect := range rects {
		tile := texture.SubRect(tex, rect, *tileSize)
		tilePath := filepath.Join(tileDir, fmt.Sprintf("f%d_q%d.%s", faces[i], i, *format))
		if err := atlas.WriteImage(tilePath, *format, tile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("tiles: %d under %s\n", len(rects), tileDir)
}
