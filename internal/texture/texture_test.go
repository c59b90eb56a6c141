package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"subdiv-refiner/internal/patchparam"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// halfTex is 8x8, red on top, blue on the bottom.
func halfTex() *image.NRGBA {
	tex := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		c := red
		if y >= 4 {
			c = blue
		}
		for x := 0; x < 8; x++ {
			tex.SetNRGBA(x, y, c)
		}
	}
	return tex
}

func TestSubRect(t *testing.T) {
	tex := halfTex()
	cases := []struct {
		name string
		rect patchparam.UVRect
		want color.NRGBA
	}{
		// V grows upward, image rows grow downward.
		{"upper half", patchparam.UVRect{U0: 0, V0: 0.5, U1: 1, V1: 1}, red},
		{"lower half", patchparam.UVRect{U0: 0, V0: 0, U1: 1, V1: 0.5}, blue},
		{"lower-right quarter", patchparam.UVRect{U0: 0.5, V0: 0, U1: 1, V1: 0.5}, blue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SubRect(tex, tc.rect, 4)
			if b := got.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
				t.Fatalf("dims %dx%d", b.Dx(), b.Dy())
			}
			if c := got.NRGBAAt(2, 2); c != tc.want {
				t.Errorf("center = %v, want %v", c, tc.want)
			}
		})
	}
}

func TestSubRectDegenerate(t *testing.T) {
	// A zero-area rectangle still yields a valid size×size tile.
	got := SubRect(halfTex(), patchparam.UVRect{U0: 0.5, V0: 0.5, U1: 0.5, V1: 0.5}, 2)
	if b := got.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("dims %dx%d", b.Dx(), b.Dy())
	}
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, halfTex()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := tex.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("dims %dx%d", b.Dx(), b.Dy())
	}
	if tex.NRGBAAt(0, 0) != red || tex.NRGBAAt(0, 7) != blue {
		t.Error("pixel mismatch after decode")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("missing file accepted")
	}
	path := filepath.Join(t.TempDir(), "junk.png")
	os.WriteFile(path, []byte("not an image"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("junk accepted")
	}
}

func TestCacheResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, halfTex()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c := NewCache()
	first := c.Resolve(path)
	if first == nil {
		t.Fatal("load failed")
	}
	// The cached image is served by pointer.
	if c.Resolve(path) != first {
		t.Error("second resolve reloaded")
	}

	// Failures are cached as nil.
	if c.Resolve("missing.png") != nil {
		t.Error("missing texture resolved")
	}
	if c.Resolve("missing.png") != nil {
		t.Error("cached failure resolved")
	}
}
