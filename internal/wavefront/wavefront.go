// Package wavefront reads and writes the subset of OBJ needed for control
// meshes: vertex positions and polygonal faces.
package wavefront

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"subdiv-refiner/internal/topology"
)

// Parse reads an OBJ file and returns its topology and vertex positions.
// Texture/normal references on face corners are ignored; negative indices
// are resolved relative to the vertices seen so far.
func Parse(path string) (*topology.Topology, [][3]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("wavefront: open %s: %w", path, err)
	}
	defer f.Close()

	var positions [][3]float32
	topo := &topology.Topology{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("wavefront: %s:%d: short vertex line", path, lineNo)
			}
			var p [3]float32
			for k := 0; k < 3; k++ {
				v, err := strconv.ParseFloat(fields[k+1], 32)
				if err != nil {
					return nil, nil, fmt.Errorf("wavefront: %s:%d: vertex coord %q: %w",
						path, lineNo, fields[k+1], err)
				}
				p[k] = float32(v)
			}
			positions = append(positions, p)

		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("wavefront: %s:%d: face needs 3+ corners", path, lineNo)
			}
			for _, corner := range fields[1:] {
				// "i", "i/j", "i/j/k", "i//k" — only the position index matters
				idxStr := corner
				if s := strings.IndexByte(corner, '/'); s >= 0 {
					idxStr = corner[:s]
				}
				idx, err := strconv.Atoi(idxStr)
				if err != nil {
					return nil, nil, fmt.Errorf("wavefront: %s:%d: face index %q: %w",
						path, lineNo, corner, err)
				}
				if idx < 0 {
					idx = len(positions) + idx
				} else {
					idx--
				}
				if idx < 0 || idx >= len(positions) {
					return nil, nil, fmt.Errorf("wavefront: %s:%d: face index %s out of range",
						path, lineNo, idxStr)
				}
				topo.FaceVerts = append(topo.FaceVerts, idx)
			}
			topo.FaceVertCounts = append(topo.FaceVertCounts, len(fields)-1)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("wavefront: read %s: %w", path, err)
	}

	topo.NumVertices = len(positions)
	return topo, positions, nil
}

// WriteQuads writes a quad mesh as OBJ: positions plus four 1-based indices
// per face line. quads holds four level-local indices per quad.
func WriteQuads(path string, positions [][3]float32, quads []int) error {
	if len(quads)%4 != 0 {
		return fmt.Errorf("wavefront: quad list length %d not a multiple of 4", len(quads))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavefront: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range positions {
		fmt.Fprintf(w, "v %g %g %g\n", p[0], p[1], p[2])
	}
	for i := 0; i < len(quads); i += 4 {
		fmt.Fprintf(w, "f %d %d %d %d\n", quads[i]+1, quads[i+1]+1, quads[i+2]+1, quads[i+3]+1)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("wavefront: write %s: %w", path, err)
	}
	return nil
}
