package imagery

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/vovakirdan/guess-the-met/internal/core"
)

// Grid is a downsampled image, W pixels wide and H pixels tall.
type Grid struct {
	W, H int
	Pix  []core.RGB
}

// At returns the pixel at (x, y).
func (g Grid) At(x, y int) core.RGB {
	return g.Pix[y*g.W+x]
}

// BlockSize maps an obfuscation level to the edge of a pixelation block
// in grid pixels. Level 0 or below shows full detail.
func BlockSize(level int) int {
	if level <= 0 {
		return 1
	}
	return 1 + level/4
}

// Sample scales img to a w x h grid. ApproxBiLinear is cheap enough to
// run on every animation frame.
func Sample(img image.Image, w, h int) Grid {
	w, h = core.Max(w, 1), core.Max(h, 1)
	g := Grid{W: w, H: h, Pix: make([]core.RGB, w*h)}
	b := img.Bounds()
	if b.Empty() {
		return g
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	for i := range g.Pix {
		p := dst.Pix[i*4 : i*4+3]
		g.Pix[i] = core.RGB{R: p[0], G: p[1], B: p[2]}
	}
	return g
}

// Pixelate returns a copy of g where every block x block square holds the
// average of its pixels. Edge blocks may be smaller.
func (g Grid) Pixelate(block int) Grid {
	out := Grid{W: g.W, H: g.H, Pix: make([]core.RGB, len(g.Pix))}
	if block <= 1 {
		copy(out.Pix, g.Pix)
		return out
	}

	for by := 0; by < g.H; by += block {
		for bx := 0; bx < g.W; bx += block {
			ex, ey := core.Min(bx+block, g.W), core.Min(by+block, g.H)
			var r, gr, b, n int
			for y := by; y < ey; y++ {
				for x := bx; x < ex; x++ {
					c := g.At(x, y)
					r += int(c.R)
					gr += int(c.G)
					b += int(c.B)
					n++
				}
			}
			avg := core.RGB{R: uint8(r / n), G: uint8(gr / n), B: uint8(b / n)}
			for y := by; y < ey; y++ {
				for x := bx; x < ex; x++ {
					out.Pix[y*g.W+x] = avg
				}
			}
		}
	}
	return out
}

// Draw paints g into s with its top-left pixel at cell (x, y).
func Draw(s *core.Screen, g Grid, x, y int) {
	for py := 0; py < g.H; py++ {
		for px := 0; px < g.W; px++ {
			s.SetPixel(x+px, 2*y+py, g.At(px, py))
		}
	}
}

// Render fits img into a cellsW x cellsH area, pixelates it for level and
// returns the result centered on a new screen.
func Render(img image.Image, level, cellsW, cellsH int) *core.Screen {
	s := core.NewScreen(cellsW, cellsH)
	b := img.Bounds()
	w, h := core.Fit(b.Dx(), b.Dy(), cellsW, cellsH*2)
	g := Sample(img, w, h).Pixelate(BlockSize(level))
	Draw(s, g, (cellsW-w)/2, (cellsH*2-h)/4)
	return s
}
