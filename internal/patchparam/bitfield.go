package patchparam

import "fmt"

// BitField is the wire form of a Param minus its face index. Layout, low bit
// first:
//
//	bits  0-9   V origin
//	bits 10-19  U origin
//	bits 20-21  rotation
//	bits 22-25  depth
//	bit  26     non-quad root flag
type BitField uint32

const (
	vShift       = 0
	uShift       = 10
	rotShift     = 20
	depthShift   = 22
	nonQuadShift = 26

	coordMask = 0x3ff
	rotMask   = 0x3
	depthMask = 0xf
)

// Pack encodes the parameter into its bit-packed form.
func (p Param) Pack() (BitField, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	b := BitField(p.V&coordMask)<<vShift |
		BitField(p.U&coordMask)<<uShift |
		BitField(p.Rotation&rotMask)<<rotShift |
		BitField(p.Depth&depthMask)<<depthShift
	if p.NonQuad {
		b |= 1 << nonQuadShift
	}
	return b, nil
}

// Unpack expands the bit-packed form, reattaching the owning face index.
func (b BitField) Unpack(faceIndex int) (Param, error) {
	p := Param{
		FaceIndex: faceIndex,
		V:         int(b>>vShift) & coordMask,
		U:         int(b>>uShift) & coordMask,
		Rotation:  int(b>>rotShift) & rotMask,
		Depth:     int(b>>depthShift) & depthMask,
		NonQuad:   b>>nonQuadShift&1 != 0,
	}
	if err := p.validate(); err != nil {
		return Param{}, fmt.Errorf("unpack %#x: %w", uint32(b), err)
	}
	return p, nil
}
