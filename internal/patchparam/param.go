package patchparam

import (
	"errors"
	"fmt"
)

// MaxDepth is the deepest sub-domain the packed representation can address;
// U and V get 10 bits each, so 2^10 sub-squares per axis is the ceiling.
const MaxDepth = 10

// ErrInvalidEncoding reports a patch parameter whose fields fall outside the
// packed representation (rotation not in 0..3, depth or origin out of range).
var ErrInvalidEncoding = errors.New("patchparam: invalid encoding")

// Param addresses one refined patch inside the unit UV square of the coarse
// ptex face that owns it. U and V locate the sub-square origin in units of
// 1/2^Depth; Rotation counts quarter turns of the patch's local frame
// relative to the face frame.
type Param struct {
	FaceIndex int
	U, V      int
	Rotation  int
	Depth     int
	NonQuad   bool // patch descends from a level-1 child of a non-quad face
}

// UVRect holds two opposite corners of a patch's sub-domain in the coarse
// face's unit-square frame. The corners are the decoded images of the patch's
// local (0,0) and (1,1); rotation codes 1..3 can place U0 right of U1.
type UVRect struct {
	U0, V0 float32
	U1, V1 float32
}

// Fraction returns the sub-domain edge length, 1/2^Depth.
func (p Param) Fraction() float32 {
	return 1.0 / float32(int(1)<<p.Depth)
}

func (p Param) validate() error {
	if p.Rotation < 0 || p.Rotation > 3 {
		return fmt.Errorf("%w: rotation %d", ErrInvalidEncoding, p.Rotation)
	}
	if p.Depth < 0 || p.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %d", ErrInvalidEncoding, p.Depth)
	}
	if p.U < 0 || p.U >= 1<<p.Depth || p.V < 0 || p.V >= 1<<p.Depth {
		return fmt.Errorf("%w: origin (%d,%d) at depth %d", ErrInvalidEncoding, p.U, p.V, p.Depth)
	}
	return nil
}

// inverseRotate undoes the quarter-turn encoded in the rotation code.
func inverseRotate(rot int, u, v float64) (float64, float64) {
	switch rot {
	case 1:
		return 1 - v, u
	case 2:
		return 1 - u, 1 - v
	case 3:
		return v, 1 - u
	}
	return u, v
}

// inverseNormalize undoes the scale+translate that mapped the coarse face
// onto the sub-domain at (U,V) of size 1/2^Depth.
func inverseNormalize(p Param, u, v float64) (float64, float64) {
	f := 1.0 / float64(int(1)<<p.Depth)
	return u*f + float64(p.U)*f, v*f + float64(p.V)*f
}

// decodePoint maps a point from the patch's local frame back into the coarse
// face's unit square: rotation is undone first, then normalization.
func decodePoint(p Param, u, v float64) (float64, float64) {
	u, v = inverseRotate(p.Rotation, u, v)
	return inverseNormalize(p, u, v)
}

// encodePoint is the exact inverse of decodePoint: it maps a coarse-face
// point into the patch's local frame. The forward quarter-turn for code r is
// the inverse table entry for 4-r.
func encodePoint(p Param, u, v float64) (float64, float64) {
	f := 1.0 / float64(int(1)<<p.Depth)
	u = (u - float64(p.U)*f) / f
	v = (v - float64(p.V)*f) / f
	return inverseRotate((4-p.Rotation)&3, u, v)
}

// Decode reconstructs the UV corners of the patch's sub-domain by pushing the
// local corners (0,0) and (1,1) through the inverse transform.
func Decode(p Param) (UVRect, error) {
	if err := p.validate(); err != nil {
		return UVRect{}, err
	}
	u0, v0 := decodePoint(p, 0, 0)
	u1, v1 := decodePoint(p, 1, 1)
	return UVRect{
		U0: float32(u0), V0: float32(v0),
		U1: float32(u1), V1: float32(v1),
	}, nil
}

// Encode maps a coarse-face point into the patch's local frame. It is the
// forward direction of the transform Decode inverts, kept public so the two
// directions can be verified against each other.
func Encode(p Param, u, v float32) (float32, float32, error) {
	if err := p.validate(); err != nil {
		return 0, 0, err
	}
	eu, ev := encodePoint(p, float64(u), float64(v))
	return float32(eu), float32(ev), nil
}

// Bounds returns the axis-aligned extent of the sub-domain regardless of
// rotation: (minU, minV, maxU, maxV).
func (r UVRect) Bounds() (float32, float32, float32, float32) {
	minU, maxU := r.U0, r.U1
	if minU > maxU {
		minU, maxU = maxU, minU
	}
	minV, maxV := r.V0, r.V1
	if minV > maxV {
		minV, maxV = maxV, minV
	}
	return minU, minV, maxU, maxV
}

// ChildOf derives the parameter of the k-th child quad (k in 0..3, one per
// parent corner) produced by splitting the patch four ways. The child's local
// frame starts at the parent's corner k, so its rotation advances by k
// quarter turns and its origin is the min corner of the child region mapped
// into the coarse frame.
func ChildOf(p Param, k int) Param {
	// child region min corner in the parent's local frame
	ox := [4]float64{0, 0.5, 0.5, 0}[k&3]
	oy := [4]float64{0, 0, 0.5, 0.5}[k&3]

	au, av := decodePoint(p, ox, oy)
	bu, bv := decodePoint(p, ox+0.5, oy+0.5)
	if bu < au {
		au = bu
	}
	if bv < av {
		av = bv
	}

	f := 1.0 / float64(int(1)<<(p.Depth+1))
	return Param{
		FaceIndex: p.FaceIndex,
		U:         int(au/f + 0.5),
		V:         int(av/f + 0.5),
		Rotation:  (p.Rotation + k) & 3,
		Depth:     p.Depth + 1,
		NonQuad:   p.NonQuad,
	}
}
