package subband

import (
	"image"

	"github.com/pkg/errors"
)

// Reassemble tiles nRows x nCols blocks, given in row-major order, into a
// single raster.
func Reassemble(blocks [][][]uint8, nRows, nCols, box int) (*image.Gray, error) {
	if nRows <= 0 || nCols <= 0 || box <= 0 {
		return nil, errors.Wrapf(ErrBlockLayout, "invalid layout %dx%d of %d", nRows, nCols, box)
	}
	if len(blocks) != nRows*nCols {
		return nil, errors.Wrapf(ErrBlockLayout, "%dx%d layout needs %d blocks, got %d", nRows, nCols, nRows*nCols, len(blocks))
	}
	for i, b := range blocks {
		if len(b) != box || matrixCols(b) != box {
			return nil, errors.Wrapf(ErrBlockLayout, "block %d is not %dx%d", i, box, box)
		}
	}

	img := image.NewGray(image.Rect(0, 0, nCols*box, nRows*box))
	err := parallelFor(len(blocks), 0, func(c int) error {
		by, bx := (c/nCols)*box, (c%nCols)*box
		for y := 0; y < box; y += 1 {
			off := img.PixOffset(bx, by+y)
			copy(img.Pix[off:off+box], blocks[c][y])
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return img, nil
}

// SplitBlocks cuts img into box x box blocks in row-major order and returns
// them with the block grid dimensions.
func SplitBlocks(img *image.Gray, box int) ([][][]uint8, int, int, error) {
	if box <= 0 {
		return nil, 0, 0, errors.Wrapf(ErrBlockLayout, "block size %d", box)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w%box != 0 || h%box != 0 {
		return nil, 0, 0, errors.Wrapf(ErrBlockLayout, "%dx%d is not a multiple of %d", w, h, box)
	}
	nRows, nCols := h/box, w/box

	blocks := make([][][]uint8, nRows*nCols)
	for c := range blocks {
		by, bx := (c/nCols)*box, (c%nCols)*box
		b := make([][]uint8, box)
		for y := 0; y < box; y += 1 {
			off := img.PixOffset(bounds.Min.X+bx, bounds.Min.Y+by+y)
			b[y] = append([]uint8(nil), img.Pix[off:off+box]...)
		}
		blocks[c] = b
	}
	return blocks, nRows, nCols, nil
}

// GrayMatrix copies the pixels of img into a Matrix.
func GrayMatrix(img *image.Gray) Matrix {
	bounds := img.Bounds()
	m := NewMatrix(bounds.Dy(), bounds.Dx())
	for y := 0; y < bounds.Dy(); y += 1 {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < bounds.Dx(); x += 1 {
			m[y][x] = int32(img.Pix[off+x])
		}
	}
	return m
}
