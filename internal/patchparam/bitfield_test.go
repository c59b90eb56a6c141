package patchparam

import (
	"errors"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	params := []Param{
		{},
		{U: 1, V: 0, Depth: 1},
		{U: 3, V: 2, Rotation: 3, Depth: 2},
		{U: 1023, V: 1023, Rotation: 1, Depth: 10},
		{Rotation: 2, NonQuad: true},
		{FaceIndex: 42, U: 5, V: 7, Rotation: 1, Depth: 4, NonQuad: true},
	}
	for _, p := range params {
		b, err := p.Pack()
		if err != nil {
			t.Fatalf("%+v: pack: %v", p, err)
		}
		got, err := b.Unpack(p.FaceIndex)
		if err != nil {
			t.Fatalf("%+v: unpack: %v", p, err)
		}
		if got != p {
			t.Errorf("round trip: got %+v, want %+v", got, p)
		}
	}
}

func TestPackInvalid(t *testing.T) {
	if _, err := (Param{Rotation: 5}).Pack(); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("rotation 5: got %v", err)
	}
	if _, err := (Param{Depth: 11, U: 1024}).Pack(); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("depth 11: got %v", err)
	}
}

func TestUnpackInvalid(t *testing.T) {
	// Origin (1,0) is outside a depth-0 domain.
	b := BitField(1 << uShift)
	if _, err := b.Unpack(0); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("got %v, want ErrInvalidEncoding", err)
	}
}
