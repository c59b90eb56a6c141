package atlas

import (
	"path/filepath"
	"testing"

	"subdiv-refiner/internal/patchparam"
)

var quarters = []patchparam.UVRect{
	{U0: 0, V0: 0, U1: 0.5, V1: 0.5},
	{U0: 0.5, V0: 0, U1: 1, V1: 0.5},
	{U0: 0.5, V0: 0.5, U1: 1, V1: 1},
	{U0: 0, V0: 0.5, U1: 0.5, V1: 1},
}

func TestRenderSingleFace(t *testing.T) {
	img, err := Render(1, quarters, []int{0, 0, 0, 0}, Options{Size: 64, Supersample: 1})
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("dims %dx%d", b.Dx(), b.Dy())
	}

	// Every quarter's center is filled, so it cannot be the background.
	centers := [][2]int{{16, 48}, {48, 48}, {48, 16}, {16, 16}}
	for i, c := range centers {
		got := img.NRGBAAt(c[0], c[1])
		if got == background {
			t.Errorf("quarter %d center still background", i)
		}
	}
}

func TestRenderGridLayout(t *testing.T) {
	rects := []patchparam.UVRect{{U0: 0, V0: 0, U1: 1, V1: 1}, {U0: 0, V0: 0, U1: 1, V1: 1}, {U0: 0, V0: 0, U1: 1, V1: 1}}
	img, err := Render(3, rects, []int{0, 1, 2}, Options{Size: 64, Supersample: 1})
	if err != nil {
		t.Fatal(err)
	}
	// 3 faces fit a 2x2 grid of 32px cells.
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("dims %dx%d", b.Dx(), b.Dy())
	}
	if img.NRGBAAt(16, 16) == background {
		t.Error("face 0 cell empty")
	}
	// The fourth cell has no ptex face behind it.
	if img.NRGBAAt(48, 48) != background {
		t.Error("unused cell painted")
	}
}

func TestRenderSupersample(t *testing.T) {
	img, err := Render(1, quarters, []int{0, 0, 0, 0}, Options{Size: 64, Supersample: 4})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("dims %dx%d after downscale", b.Dx(), b.Dy())
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(0, nil, nil, Options{}); err == nil {
		t.Error("zero ptex faces accepted")
	}
	if _, err := Render(1, quarters, []int{0}, Options{}); err == nil {
		t.Error("mismatched lengths accepted")
	}
	if _, err := Render(1, quarters[:1], []int{3}, Options{Size: 64}); err == nil {
		t.Error("face id out of range accepted")
	}
}

func TestWriteImage(t *testing.T) {
	img, err := Render(1, quarters, []int{0, 0, 0, 0}, Options{Size: 32, Supersample: 1})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for _, format := range []string{"webp", "tga"} {
		if err := WriteImage(filepath.Join(dir, "atlas."+format), format, img); err != nil {
			t.Errorf("%s: %v", format, err)
		}
	}
	if err := WriteImage(filepath.Join(dir, "atlas.png"), "png", img); err == nil {
		t.Error("unknown format accepted")
	}
}
