// Package hierarchy builds the level-indexed subdivision tables a refiner
// walks: per-level vertex counts and offsets, flat face-vertex index arrays,
// and the patch parameters that tie every refined quad back to a sub-domain
// of its coarse ptex face.
package hierarchy

import (
	"subdiv-refiner/internal/patchparam"
)

// LevelInfo gives the vertex count of one refinement level and the index of
// its first vertex in the flat global arrays. Level 0 is the control mesh.
type LevelInfo struct {
	NumVerts   int
	VertOffset int
}

// PatchArray describes the contiguous run of patches retained for one level:
// PatchIndex is the first patch's position in Params, VertIndexBase the first
// corner's position in FaceVerts.
type PatchArray struct {
	Level         int
	NumPatches    int
	PatchIndex    int
	VertIndexBase int
}

// Hierarchy holds the refined tables for all retained levels. FaceVerts
// stores four global vertex indices per quad; Positions concatenates every
// level's vertices in level order.
type Hierarchy struct {
	Levels    []LevelInfo
	Arrays    []PatchArray
	FaceVerts []int
	Params    []patchparam.Param
	Positions [][3]float32
	PtexFaces int
}

// NumLevels returns the number of vertex levels including the base mesh.
func (h *Hierarchy) NumLevels() int {
	return len(h.Levels)
}

// NumPatchArrays returns the number of per-level patch arrays retained.
func (h *Hierarchy) NumPatchArrays() int {
	return len(h.Arrays)
}

// FirstVertexOffset returns the global index of level's first vertex.
func (h *Hierarchy) FirstVertexOffset(level int) int {
	return h.Levels[level].VertOffset
}

// NumVertices returns the vertex count at level.
func (h *Hierarchy) NumVertices(level int) int {
	return h.Levels[level].NumVerts
}

// LevelPositions returns the vertex positions of one level as a view into
// the flat position array.
func (h *Hierarchy) LevelPositions(level int) [][3]float32 {
	info := h.Levels[level]
	return h.Positions[info.VertOffset : info.VertOffset+info.NumVerts]
}
