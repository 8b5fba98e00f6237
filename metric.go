package subband

import (
	"image"
	"math"
)

// PSNR returns the peak signal-to-noise ratio between two gray images of the
// same size, +Inf when they are identical and 0 when their sizes differ.
func PSNR(a, b *image.Gray) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return 0
	}
	w, h := ab.Dx(), ab.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	mse := 0.0
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			d := float64(a.GrayAt(ab.Min.X+x, ab.Min.Y+y).Y) - float64(b.GrayAt(bb.Min.X+x, bb.Min.Y+y).Y)
			mse += d * d
		}
	}
	mse /= float64(w * h)
	if mse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(255.0/math.Sqrt(mse))
}
