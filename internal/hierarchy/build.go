package hierarchy

import (
	"fmt"

	"subdiv-refiner/internal/patchparam"
	"subdiv-refiner/internal/topology"
)

// levelFace is one face during refinement, with level-local corner ids.
type levelFace struct {
	verts []int
	param patchparam.Param
}

// Build refines the control mesh maxLevel times and assembles the flat
// tables. Uniform mode retains a patch array for every level from firstLevel
// up; adaptive mode retains only the quads finalized at each level (regular
// interior quads stop early, the rest are isolated until maxLevel).
//
// Positions may be nil when only connectivity is needed; otherwise one entry
// per control vertex. Refined positions use plain midpoint/centroid
// averaging, which is all the parameter bookkeeping needs.
func Build(topo *topology.Topology, positions [][3]float32, maxLevel int, adaptive bool, firstLevel int) (*Hierarchy, error) {
	if topo == nil {
		return nil, fmt.Errorf("hierarchy: nil topology")
	}
	if maxLevel < 1 {
		return nil, fmt.Errorf("hierarchy: max level %d, need at least 1", maxLevel)
	}
	if maxLevel > patchparam.MaxDepth {
		return nil, fmt.Errorf("hierarchy: max level %d exceeds addressable depth %d",
			maxLevel, patchparam.MaxDepth)
	}
	if positions == nil {
		positions = make([][3]float32, topo.NumVertices)
	}
	if len(positions) != topo.NumVertices {
		return nil, fmt.Errorf("hierarchy: %d positions for %d vertices",
			len(positions), topo.NumVertices)
	}
	if firstLevel < 1 {
		firstLevel = 1
	}

	h := &Hierarchy{
		Levels:    []LevelInfo{{NumVerts: topo.NumVertices, VertOffset: 0}},
		Positions: append([][3]float32(nil), positions...),
	}

	// Level-0 faces and their ptex roots: quads own one ptex face, an n-gon
	// owns one per corner.
	active := make([]levelFace, topo.NumFaces())
	ptexBase := make([]int, topo.NumFaces())
	off, pt := 0, 0
	for i, c := range topo.FaceVertCounts {
		active[i] = levelFace{verts: topo.FaceVerts[off : off+c]}
		ptexBase[i] = pt
		if c == 4 {
			pt++
		} else {
			pt += c
		}
		off += c
	}
	h.PtexFaces = pt

	prevPos := positions
	numPrevVerts := topo.NumVertices

	for l := 1; l <= maxLevel; l++ {
		children, numVerts, pos := subdivideLevel(active, numPrevVerts, prevPos, l, ptexBase)

		vertOffset := h.Levels[l-1].VertOffset + h.Levels[l-1].NumVerts
		h.Levels = append(h.Levels, LevelInfo{NumVerts: numVerts, VertOffset: vertOffset})
		h.Positions = append(h.Positions, pos...)

		if adaptive {
			regular := regularVerts(children, numVerts)
			arr := PatchArray{Level: l, PatchIndex: len(h.Params), VertIndexBase: len(h.FaceVerts)}
			next := children[:0:0]
			for _, c := range children {
				done := l == maxLevel ||
					(regular[c.verts[0]] && regular[c.verts[1]] &&
						regular[c.verts[2]] && regular[c.verts[3]])
				if done {
					arr.NumPatches++
					h.appendPatch(c, vertOffset)
				} else {
					next = append(next, c)
				}
			}
			h.Arrays = append(h.Arrays, arr)
			active = next
		} else {
			if l >= firstLevel {
				arr := PatchArray{
					Level:         l,
					NumPatches:    len(children),
					PatchIndex:    len(h.Params),
					VertIndexBase: len(h.FaceVerts),
				}
				for _, c := range children {
					h.appendPatch(c, vertOffset)
				}
				h.Arrays = append(h.Arrays, arr)
			}
			active = children
		}

		numPrevVerts = numVerts
		prevPos = pos

		if len(active) == 0 && l < maxLevel {
			// Everything finalized early; pad the remaining levels so level
			// numbering stays dense.
			for m := l + 1; m <= maxLevel; m++ {
				vo := h.Levels[m-1].VertOffset + h.Levels[m-1].NumVerts
				h.Levels = append(h.Levels, LevelInfo{VertOffset: vo})
				h.Arrays = append(h.Arrays, PatchArray{
					Level:         m,
					PatchIndex:    len(h.Params),
					VertIndexBase: len(h.FaceVerts),
				})
			}
			break
		}
	}

	return h, nil
}

func (h *Hierarchy) appendPatch(f levelFace, vertOffset int) {
	h.Params = append(h.Params, f.param)
	for _, v := range f.verts {
		h.FaceVerts = append(h.FaceVerts, v+vertOffset)
	}
}

type edgeKey [2]int

func ekey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// subdivideLevel splits every parent face into one quad per corner. Child
// vertex ids are level-local, ordered: children of parent vertices (vertex-id
// order), then of edges (discovery order), then of faces.
func subdivideLevel(parents []levelFace, numPrevVerts int, prevPos [][3]float32, level int, ptexBase []int) ([]levelFace, int, [][3]float32) {
	used := make([]bool, numPrevVerts)
	for _, p := range parents {
		for _, v := range p.verts {
			used[v] = true
		}
	}
	vertChild := make([]int, numPrevVerts)
	nV := 0
	for i := range used {
		if used[i] {
			vertChild[i] = nV
			nV++
		} else {
			vertChild[i] = -1
		}
	}

	edgeIDs := make(map[edgeKey]int)
	var edgeVerts []edgeKey
	edgeOf := func(a, b int) int {
		k := ekey(a, b)
		id, ok := edgeIDs[k]
		if !ok {
			id = len(edgeVerts)
			edgeIDs[k] = id
			edgeVerts = append(edgeVerts, k)
		}
		return id
	}
	for _, p := range parents {
		n := len(p.verts)
		for k := 0; k < n; k++ {
			edgeOf(p.verts[k], p.verts[(k+1)%n])
		}
	}

	nE := len(edgeVerts)
	nF := len(parents)
	edgeBase := nV
	faceBase := nV + nE

	pos := make([][3]float32, nV+nE+nF)
	for i, id := range vertChild {
		if id >= 0 {
			pos[id] = prevPos[i]
		}
	}
	for e, ev := range edgeVerts {
		a, b := prevPos[ev[0]], prevPos[ev[1]]
		pos[edgeBase+e] = [3]float32{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
	}

	children := make([]levelFace, 0, 4*nF)
	for f, p := range parents {
		n := len(p.verts)

		var c [3]float32
		for _, v := range p.verts {
			c[0] += prevPos[v][0]
			c[1] += prevPos[v][1]
			c[2] += prevPos[v][2]
		}
		pos[faceBase+f] = [3]float32{c[0] / float32(n), c[1] / float32(n), c[2] / float32(n)}

		for k := 0; k < n; k++ {
			ck := p.verts[k]
			eNext := edgeOf(ck, p.verts[(k+1)%n])
			ePrev := edgeOf(p.verts[(k+n-1)%n], ck)

			var prm patchparam.Param
			switch {
			case level > 1:
				prm = patchparam.ChildOf(p.param, k)
			case n == 4:
				prm = patchparam.ChildOf(patchparam.Param{FaceIndex: ptexBase[f]}, k)
			default:
				// Each level-1 child of a non-quad face roots its own ptex face.
				prm = patchparam.Param{FaceIndex: ptexBase[f] + k, NonQuad: true}
			}

			children = append(children, levelFace{
				verts: []int{vertChild[ck], edgeBase + eNext, faceBase + f, edgeBase + ePrev},
				param: prm,
			})
		}
	}

	return children, nV + nE + nF, pos
}

// regularVerts flags vertices with interior valence 4, the stopping criterion
// for adaptive isolation.
func regularVerts(faces []levelFace, numVerts int) []bool {
	valence := make([]int, numVerts)
	uses := make(map[edgeKey]int)
	for _, f := range faces {
		n := len(f.verts)
		for k := 0; k < n; k++ {
			e := ekey(f.verts[k], f.verts[(k+1)%n])
			if uses[e] == 0 {
				valence[e[0]]++
				valence[e[1]]++
			}
			uses[e]++
		}
	}

	regular := make([]bool, numVerts)
	for i := range regular {
		regular[i] = valence[i] == 4
	}
	for e, n := range uses {
		if n == 1 {
			regular[e[0]] = false
			regular[e[1]] = false
		}
	}
	return regular
}
