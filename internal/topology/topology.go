package topology

import (
	"errors"
	"fmt"
)

// ErrInvalid reports a base mesh description that cannot be refined.
var ErrInvalid = errors.New("topology: invalid")

// Topology describes a polygonal control mesh as flat face-vertex lists.
// FaceVerts concatenates the corner indices of every face; FaceVertCounts
// gives the corner count per face.
type Topology struct {
	NumVertices    int
	FaceVertCounts []int
	FaceVerts      []int
}

// NumFaces returns the number of coarse faces.
func (t *Topology) NumFaces() int {
	return len(t.FaceVertCounts)
}

// Face returns the corner indices of face i as a view into FaceVerts.
func (t *Topology) Face(i int) []int {
	off := 0
	for _, n := range t.FaceVertCounts[:i] {
		off += n
	}
	return t.FaceVerts[off : off+t.FaceVertCounts[i]]
}

// NumPtexFaces counts the independent ptex parameterization roots: one per
// quad face, and one per corner for every non-quad face.
func (t *Topology) NumPtexFaces() int {
	n := 0
	for _, c := range t.FaceVertCounts {
		if c == 4 {
			n++
		} else {
			n += c
		}
	}
	return n
}

// Validate checks that the face lists are internally consistent: at least one
// face, corner counts of 3 or more, index ranges, and no degenerate edges.
func (t *Topology) Validate() error {
	if t.NumVertices <= 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalid)
	}
	if len(t.FaceVertCounts) == 0 {
		return fmt.Errorf("%w: no faces", ErrInvalid)
	}

	sum := 0
	for i, c := range t.FaceVertCounts {
		if c < 3 {
			return fmt.Errorf("%w: face %d has %d corners", ErrInvalid, i, c)
		}
		sum += c
	}
	if sum != len(t.FaceVerts) {
		return fmt.Errorf("%w: face-vert list has %d entries, counts sum to %d",
			ErrInvalid, len(t.FaceVerts), sum)
	}

	off := 0
	for i, c := range t.FaceVertCounts {
		corners := t.FaceVerts[off : off+c]
		for k, v := range corners {
			if v < 0 || v >= t.NumVertices {
				return fmt.Errorf("%w: face %d corner %d references vertex %d of %d",
					ErrInvalid, i, k, v, t.NumVertices)
			}
			if corners[(k+1)%c] == v {
				return fmt.Errorf("%w: face %d has degenerate edge at corner %d", ErrInvalid, i, k)
			}
		}
		off += c
	}

	return nil
}

// Valences returns the number of distinct edges incident to each vertex.
func (t *Topology) Valences() []int {
	valence := make([]int, t.NumVertices)
	seen := make(map[[2]int]bool)

	off := 0
	for _, c := range t.FaceVertCounts {
		for k := 0; k < c; k++ {
			a, b := t.FaceVerts[off+k], t.FaceVerts[off+(k+1)%c]
			if a > b {
				a, b = b, a
			}
			if !seen[[2]int{a, b}] {
				seen[[2]int{a, b}] = true
				valence[a]++
				valence[b]++
			}
		}
		off += c
	}
	return valence
}

// BoundaryVertices flags vertices on a boundary edge (an edge with exactly
// one incident face). Isolated vertices are not flagged.
func (t *Topology) BoundaryVertices() []bool {
	uses := make(map[[2]int]int)

	off := 0
	for _, c := range t.FaceVertCounts {
		for k := 0; k < c; k++ {
			a, b := t.FaceVerts[off+k], t.FaceVerts[off+(k+1)%c]
			if a > b {
				a, b = b, a
			}
			uses[[2]int{a, b}]++
		}
		off += c
	}

	boundary := make([]bool, t.NumVertices)
	for e, n := range uses {
		if n == 1 {
			boundary[e[0]] = true
			boundary[e[1]] = true
		}
	}
	return boundary
}
