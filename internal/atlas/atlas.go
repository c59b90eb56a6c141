// Package atlas renders decoded ptex addressing as an image: every coarse
// ptex face gets one grid cell, and each refined quad's sub-domain rectangle
// is filled inside its owner's cell.
package atlas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"subdiv-refiner/internal/patchparam"
)

// Options controls atlas rendering.
type Options struct {
	Size        int // output width in pixels
	Supersample int // draw at Size*Supersample, then downscale
	DrawGrid    bool
}

var background = color.NRGBA{24, 24, 28, 255}

// Render draws the per-quad sub-domain rectangles into a ptex-face grid.
// faces and rects are the parallel outputs of the refiner's UV extraction.
func Render(ptexFaces int, rects []patchparam.UVRect, faces []int, opts Options) (*image.NRGBA, error) {
	if ptexFaces <= 0 {
		return nil, fmt.Errorf("atlas: no ptex faces")
	}
	if len(rects) != len(faces) {
		return nil, fmt.Errorf("atlas: %d rects for %d face ids", len(rects), len(faces))
	}
	if opts.Size <= 0 {
		opts.Size = 512
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}

	cols := int(math.Ceil(math.Sqrt(float64(ptexFaces))))
	rows := (ptexFaces + cols - 1) / cols
	cell := opts.Size * opts.Supersample / cols
	if cell < 2 {
		return nil, fmt.Errorf("atlas: %d ptex faces do not fit a %d px atlas", ptexFaces, opts.Size)
	}

	img := image.NewNRGBA(image.Rect(0, 0, cols*cell, rows*cell))
	fill(img, img.Bounds(), background)

	for i, r := range rects {
		face := faces[i]
		if face < 0 || face >= ptexFaces {
			return nil, fmt.Errorf("atlas: quad %d references ptex face %d of %d", i, face, ptexFaces)
		}
		cx, cy := (face%cols)*cell, (face/cols)*cell

		minU, minV, maxU, maxV := r.Bounds()
		// V grows upward, image Y grows downward.
		x0 := cx + int(float64(minU)*float64(cell)+0.5)
		x1 := cx + int(float64(maxU)*float64(cell)+0.5)
		y0 := cy + int(float64(1-maxV)*float64(cell)+0.5)
		y1 := cy + int(float64(1-minV)*float64(cell)+0.5)

		c := quadColor(i)
		fill(img, image.Rect(x0, y0, x1, y1), c)
		outline(img, image.Rect(x0, y0, x1, y1), darken(c))
	}

	if opts.DrawGrid {
		for f := 0; f < ptexFaces; f++ {
			cx, cy := (f%cols)*cell, (f/cols)*cell
			outline(img, image.Rect(cx, cy, cx+cell, cy+cell), color.NRGBA{255, 255, 255, 255})
		}
	}

	if opts.Supersample > 1 {
		img = downscale(img, cols*cell/opts.Supersample, rows*cell/opts.Supersample)
	}
	return img, nil
}

// downscale resizes with CatmullRom filtering, which is enough for the
// opaque, hard-edged atlas content.
func downscale(img *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[off] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = c.A
			off += 4
		}
	}
}

func outline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Dx() < 1 || r.Dy() < 1 {
		return
	}
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fill(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// quadColor steps the hue by the golden ratio so neighboring quads stay
// distinguishable at any count.
func quadColor(i int) color.NRGBA {
	h := math.Mod(float64(i)*0.618033988749895, 1.0)
	r, g, b := hsvToRGB(h, 0.55, 0.95)
	return color.NRGBA{r, g, b, 255}
}

func darken(c color.NRGBA) color.NRGBA {
	return color.NRGBA{c.R / 2, c.G / 2, c.B / 2, 255}
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return uint8(r*255 + 0.5), uint8(g*255 + 0.5), uint8(b*255 + 0.5)
}
