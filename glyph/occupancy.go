package glyph

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// occupancy rasterizes contours over the ink box b into a cols x rows
// alpha mask and returns the ink density of every column.
func occupancy(cs []contour, b Bounds, cols, rows int) []float64 {
	if cols <= 0 || rows <= 0 || b.IsEmpty() || len(cs) == 0 {
		return nil
	}

	sx := float64(cols) / b.Width()
	sy := float64(rows) / b.Height()

	z := vector.NewRasterizer(cols, rows)
	z.DrawOp = draw.Src
	for _, c := range cs {
		if len(c) < 3 {
			continue
		}
		z.MoveTo(float32((c[0].X-b.Left)*sx), float32((c[0].Y-b.Top)*sy))
		for _, p := range c[1:] {
			z.LineTo(float32((p.X-b.Left)*sx), float32((p.Y-b.Top)*sy))
		}
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, cols, rows))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	out := make([]float64, cols)
	for x := 0; x < cols; x++ {
		sum := 0
		for y := 0; y < rows; y++ {
			sum += int(mask.AlphaAt(x, y).A)
		}
		out[x] = float64(sum) / float64(rows*0xff)
	}
	return out
}
