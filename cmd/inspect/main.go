package main

import (
	"flag"
	"fmt"
	"os"

	"subdiv-refiner/internal/hierarchy"
	"subdiv-refiner/internal/refiner"
	"subdiv-refiner/internal/wavefront"
)

func main() {
	maxLevel := flag.Int("level", 2, "Maximum refinement level")
	adaptive := flag.Bool("adaptive", false, "Adaptive refinement")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-level N] [-adaptive] mesh.obj")
		os.Exit(1)
	}
	path := flag.Arg(0)

	topo, positions, err := wavefront.Parse(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  base: %d verts, %d faces, %d ptex faces\n",
		topo.NumVertices, topo.NumFaces(), topo.NumPtexFaces())

	quadOnly := true
	for _, c := range topo.FaceVertCounts {
		if c != 4 {
			quadOnly = false
			break
		}
	}
	fmt.Printf("  quad-only: %v\n", quadOnly)

	h, err := hierarchy.Build(topo, positions, *maxLevel, *adaptive, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n  %-6s %10s %12s\n", "level", "verts", "vertOffset")
	for l := 0; l < h.NumLevels(); l++ {
		fmt.Printf("  %-6d %10d %12d\n", l, h.NumVertices(l), h.FirstVertexOffset(l))
	}

	fmt.Printf("\n  %-6s %10s %12s %14s\n", "array", "patches", "patchIndex", "vertIndexBase")
	for i, a := range h.Arrays {
		fmt.Printf("  %-6d %10d %12d %14d  (level %d)\n",
			i, a.NumPatches, a.PatchIndex, a.VertIndexBase, a.Level)
	}

	// Exercise the driver the way downstream consumers do.
	r := refiner.New(refiner.Options{MaxLevel: *maxLevel, Adaptive: *adaptive})
	if err := r.Initialize(topo, positions); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if r.Mode() == refiner.ModeAdaptive {
		fmt.Printf("\n  target level %d: %d patches, %d refined verts\n",
			r.Level(), r.NumPatches(), r.NumRefinedVerts())
	} else {
		fmt.Printf("\n  target level %d: %d quads, %d refined verts\n",
			r.Level(), r.NumUniformQuads(), r.NumRefinedVerts())
	}
}
