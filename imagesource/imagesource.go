// Package imagesource prepares pixel buffers for the codec: it decodes an
// image, converts it to a single gray channel and resizes it so both sides
// are multiples of 2^depth.
package imagesource

import (
	"image"
	"image/png"
	"io"
	"math"
	"math/big"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

var (
	ErrDepth = errors.New("imagesource: invalid depth")
)

type Image struct {
	Gray *image.Gray
	// Aspect is rows/cols of the prepared image.
	Aspect *big.Rat
}

// Load decodes r and prepares it for a decomposition of the given depth.
func Load(r io.Reader, depth int) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Prepare(src, depth)
}

// Prepare resizes src to the nearest multiple of 2^depth on each side and
// converts it to gray.
func Prepare(src image.Image, depth int) (*Image, error) {
	if depth < 0 || 16 < depth {
		return nil, errors.Wrapf(ErrDepth, "depth %d", depth)
	}
	b := src.Bounds()
	rows, cols := Fit(b.Dy(), depth), Fit(b.Dx(), depth)
	if rows != b.Dy() || cols != b.Dx() {
		src = resize.Resize(uint(cols), uint(rows), src, resize.Bilinear)
	}
	return &Image{
		Gray:   Grayscale(src),
		Aspect: big.NewRat(int64(rows), int64(cols)),
	}, nil
}

// Fit rounds n half to even to a multiple of 2^depth, never below 2^depth.
func Fit(n, depth int) int {
	divisor := 1 << depth
	fit := int(math.RoundToEven(float64(n)/float64(divisor))) * divisor
	return max(fit, divisor)
}

func Grayscale(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	f := gift.New(gift.Grayscale())
	dst := image.NewGray(f.Bounds(src.Bounds()))
	f.Draw(dst, src)
	return dst
}

func Save(w io.Writer, img *image.Gray) error {
	if err := png.Encode(w, img); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
