// Package refiner drives subdivision refinement of a control mesh and
// exposes the refined quad connectivity and per-quad ptex addressing at a
// chosen level.
package refiner

import (
	"errors"
	"fmt"

	"subdiv-refiner/internal/hierarchy"
	"subdiv-refiner/internal/patchparam"
	"subdiv-refiner/internal/topology"
)

var (
	// ErrNotRefined is returned when extraction is attempted before a
	// successful Initialize.
	ErrNotRefined = errors.New("refiner: mesh has not been refined")

	// ErrAdaptiveUnsupported is returned by the uniform-only extractions
	// when the refiner was built in adaptive mode.
	ErrAdaptiveUnsupported = errors.New("refiner: only uniform subdivision is supported")

	// ErrNoQuads is returned when the target level holds no quads.
	ErrNoQuads = errors.New("refiner: no quads at target level")

	// ErrInvalidLevel is returned when the requested level is outside the
	// refined hierarchy.
	ErrInvalidLevel = errors.New("refiner: invalid refinement level")

	// ErrInvalidTopology wraps a control mesh that failed validation.
	ErrInvalidTopology = errors.New("refiner: invalid topology")

	// ErrBuildFailure wraps a subdivision table construction failure.
	ErrBuildFailure = errors.New("refiner: subdivision table construction failed")
)

// Mode selects the refinement strategy.
type Mode int

const (
	// ModeUniform subdivides every face the same number of times and
	// retains all intermediate levels as quads.
	ModeUniform Mode = iota

	// ModeAdaptive varies subdivision depth per region and retains patches
	// only; the quad/UV extractions are unavailable.
	ModeAdaptive
)

func (m Mode) String() string {
	if m == ModeAdaptive {
		return "adaptive"
	}
	return "uniform"
}

type state int

const (
	stateUninitialized state = iota
	stateReady
	stateFailed
)

// Options is the refinement request. TargetLevel selects which level the
// extractions read; zero means level 1.
type Options struct {
	MaxLevel    int
	Adaptive    bool
	TargetLevel int
}

// Refiner owns a refined subdivision hierarchy and the cached offsets needed
// for O(1) extraction at the target level. A Refiner moves from uninitialized
// to ready or failed exactly once; a failed instance cannot be reused. Once
// ready it is safe for concurrent read-only extraction.
type Refiner struct {
	opts  Options
	mode  Mode
	state state

	hier  *hierarchy.Hierarchy
	level int

	firstVertexOffset int
	firstPatchOffset  int
	vertIndexBase     int

	numRefinedVerts int
	numUniformQuads int
	numPatches      int
}

// New returns an uninitialized refiner for the given request.
func New(opts Options) *Refiner {
	mode := ModeUniform
	if opts.Adaptive {
		mode = ModeAdaptive
	}
	return &Refiner{opts: opts, mode: mode}
}

func (r *Refiner) fail(err error) error {
	r.state = stateFailed
	return err
}

// Initialize validates the control mesh, builds the subdivision tables, and
// caches the target level's offsets and counts. Any failure leaves the
// refiner permanently failed; a fresh instance is required to retry.
func (r *Refiner) Initialize(topo *topology.Topology, positions [][3]float32) error {
	if r.state != stateUninitialized {
		return fmt.Errorf("refiner: initialize called twice")
	}
	if r.opts.MaxLevel < 1 {
		return r.fail(fmt.Errorf("%w: max level %d, need at least 1", ErrInvalidLevel, r.opts.MaxLevel))
	}
	if topo == nil {
		return r.fail(fmt.Errorf("%w: nil topology", ErrInvalidTopology))
	}
	if err := topo.Validate(); err != nil {
		return r.fail(fmt.Errorf("%w: %v", ErrInvalidTopology, err))
	}

	// Uniform tables are built with firstLevel 1 so every intermediate
	// level's quads are retained; adaptive tables keep patches only.
	h, err := hierarchy.Build(topo, positions, r.opts.MaxLevel, r.mode == ModeAdaptive, 1)
	if err != nil {
		return r.fail(fmt.Errorf("%w: %v", ErrBuildFailure, err))
	}

	target := r.opts.TargetLevel
	if target == 0 {
		target = 1
	}
	// Patch arrays start at level 1; the base mesh is not one of them.
	if target < 1 || target > h.NumPatchArrays() {
		return r.fail(fmt.Errorf("%w: target level %d, hierarchy has %d",
			ErrInvalidLevel, target, h.NumPatchArrays()))
	}
	parray := h.Arrays[target-1]

	r.hier = h
	r.level = parray.Level
	r.firstVertexOffset = h.FirstVertexOffset(parray.Level)
	r.firstPatchOffset = parray.PatchIndex
	r.vertIndexBase = parray.VertIndexBase
	r.numRefinedVerts = h.NumVertices(parray.Level)

	// Counts are mutually exclusive by mode.
	if r.mode == ModeAdaptive {
		r.numPatches = parray.NumPatches
	} else {
		r.numUniformQuads = parray.NumPatches
	}

	r.state = stateReady
	return nil
}

// Mode reports the refinement strategy.
func (r *Refiner) Mode() Mode { return r.mode }

// IsRefined reports whether Initialize completed successfully.
func (r *Refiner) IsRefined() bool { return r.state == stateReady }

// Level returns the target refinement level, valid once refined.
func (r *Refiner) Level() int { return r.level }

// NumRefinedVerts returns the vertex count at the target level.
func (r *Refiner) NumRefinedVerts() int { return r.numRefinedVerts }

// NumUniformQuads returns the quad count at the target level; zero in
// adaptive mode.
func (r *Refiner) NumUniformQuads() int { return r.numUniformQuads }

// NumPatches returns the adaptive patch count at the target level; zero in
// uniform mode.
func (r *Refiner) NumPatches() int { return r.numPatches }

// Hierarchy exposes the refined tables for downstream consumers; nil until
// refined.
func (r *Refiner) Hierarchy() *hierarchy.Hierarchy {
	if r.state != stateReady {
		return nil
	}
	return r.hier
}

// GetRefinedQuads returns the quad connectivity at the target level as four
// level-local vertex indices per quad, in builder order. Uniform mode only.
func (r *Refiner) GetRefinedQuads() ([]int, error) {
	if r.state != stateReady {
		return nil, ErrNotRefined
	}
	if r.mode == ModeAdaptive {
		return nil, ErrAdaptiveUnsupported
	}
	if r.numUniformQuads == 0 {
		return nil, ErrNoQuads
	}

	src := r.hier.FaceVerts[r.vertIndexBase : r.vertIndexBase+4*r.numUniformQuads]
	quads := make([]int, len(src))
	for i, gi := range src {
		quads[i] = gi - r.firstVertexOffset
	}
	return quads, nil
}

// GetRefinedPtexUVs decodes the ptex addressing of every quad at the target
// level: parallel slices of sub-domain rectangles and owning coarse-face
// ids, index-aligned with GetRefinedQuads. Uniform mode only.
func (r *Refiner) GetRefinedPtexUVs() ([]patchparam.UVRect, []int, error) {
	if r.state != stateReady {
		return nil, nil, ErrNotRefined
	}
	if r.mode == ModeAdaptive {
		return nil, nil, ErrAdaptiveUnsupported
	}
	if r.numUniformQuads == 0 {
		return nil, nil, ErrNoQuads
	}

	rects := make([]patchparam.UVRect, r.numUniformQuads)
	faces := make([]int, r.numUniformQuads)
	for i := 0; i < r.numUniformQuads; i++ {
		p := r.hier.Params[r.firstPatchOffset+i]
		rect, err := patchparam.Decode(p)
		if err != nil {
			return nil, nil, err
		}
		rects[i] = rect
		faces[i] = p.FaceIndex
	}
	return rects, faces, nil
}
