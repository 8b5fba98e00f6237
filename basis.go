package subband

import (
	"math"
	"sync"

	"github.com/pkg/errors"
)

// Basis holds the orthonormal cosine basis of a size x size block: one
// size x size pattern per coefficient position (u, v).
type Basis struct {
	size     int
	patterns [][][][]float64
}

var bases sync.Map // int -> *Basis

// BasisFor returns the shared basis for size, building it on first use.
// The returned value is never modified.
func BasisFor(size int) (*Basis, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrDimension, "block size %d", size)
	}
	if b, ok := bases.Load(size); ok {
		return b.(*Basis), nil
	}
	b, _ := bases.LoadOrStore(size, newBasis(size))
	return b.(*Basis), nil
}

func newBasis(size int) *Basis {
	scale := func(k int) float64 {
		if k == 0 {
			return math.Sqrt(1.0 / float64(size))
		}
		return math.Sqrt(2.0 / float64(size))
	}
	n := float64(size)
	cos := make([][]float64, size) // cos[k][i]
	for k := 0; k < size; k += 1 {
		cos[k] = make([]float64, size)
		for i := 0; i < size; i += 1 {
			cos[k][i] = scale(k) * math.Cos(float64(2*i+1)*float64(k)*math.Pi/(2*n))
		}
	}

	patterns := make([][][][]float64, size)
	for u := 0; u < size; u += 1 {
		patterns[u] = make([][][]float64, size)
		for v := 0; v < size; v += 1 {
			p := make([][]float64, size)
			for i := 0; i < size; i += 1 {
				p[i] = make([]float64, size)
				for j := 0; j < size; j += 1 {
					p[i][j] = cos[u][i] * cos[v][j]
				}
			}
			patterns[u][v] = p
		}
	}
	return &Basis{size: size, patterns: patterns}
}

func (b *Basis) Size() int {
	return b.size
}

// Pattern is the spatial contribution of coefficient (u, v).
func (b *Basis) Pattern(u, v int) [][]float64 {
	return b.patterns[u][v]
}

func (b *Basis) checkBlock(rows, cols int) error {
	if rows != b.size || cols != b.size {
		return errors.Wrapf(ErrDimension, "expected %dx%d block, got %dx%d", b.size, b.size, rows, cols)
	}
	return nil
}

// Inverse sums coef(u, v) * Pattern(u, v) over every coefficient.
func (b *Basis) Inverse(coef [][]int32) ([][]float64, error) {
	if err := b.checkBlock(len(coef), matrixCols(coef)); err != nil {
		return nil, errors.WithStack(err)
	}
	out := make([][]float64, b.size)
	for i := range out {
		out[i] = make([]float64, b.size)
	}
	for u := 0; u < b.size; u += 1 {
		for v := 0; v < b.size; v += 1 {
			c := float64(coef[u][v])
			if c == 0 {
				continue
			}
			p := b.patterns[u][v]
			for i := 0; i < b.size; i += 1 {
				for j := 0; j < b.size; j += 1 {
					out[i][j] += c * p[i][j]
				}
			}
		}
	}
	return out, nil
}

// Forward projects a pixel block onto every pattern.
func (b *Basis) Forward(block [][]uint8) ([][]float64, error) {
	if err := b.checkBlock(len(block), matrixCols(block)); err != nil {
		return nil, errors.WithStack(err)
	}
	out := make([][]float64, b.size)
	for u := 0; u < b.size; u += 1 {
		out[u] = make([]float64, b.size)
		for v := 0; v < b.size; v += 1 {
			p := b.patterns[u][v]
			sum := 0.0
			for i := 0; i < b.size; i += 1 {
				for j := 0; j < b.size; j += 1 {
					sum += float64(block[i][j]) * p[i][j]
				}
			}
			out[u][v] = sum
		}
	}
	return out, nil
}

func matrixCols[T any](m [][]T) int {
	if len(m) == 0 {
		return 0
	}
	cols := len(m[0])
	for _, row := range m {
		if len(row) != cols {
			return -1
		}
	}
	return cols
}

func clampPixel(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case 255 < v:
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// InverseBlocks reconstructs pixel blocks from dequantized coefficient
// blocks, clipping every sample to [0,255] before rounding.
func InverseBlocks(blocks [][][]int32, size int) ([][][]uint8, error) {
	return inverseBlocks(blocks, size, 0)
}

func inverseBlocks(blocks [][][]int32, size, workers int) ([][][]uint8, error) {
	b, err := BasisFor(size)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	out := make([][][]uint8, len(blocks))
	err = parallelFor(len(blocks), workers, func(i int) error {
		spatial, err := b.Inverse(blocks[i])
		if err != nil {
			return errors.Wrapf(err, "block %d", i)
		}
		px := make([][]uint8, size)
		for y, row := range spatial {
			px[y] = make([]uint8, size)
			for x, v := range row {
				px[y][x] = clampPixel(v)
			}
		}
		out[i] = px
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

// ForwardBlocks transforms and quantizes every pixel block with t.
func ForwardBlocks(blocks [][][]uint8, t BlockTable) ([][][]int32, error) {
	return forwardBlocks(blocks, t, 0)
}

func forwardBlocks(blocks [][][]uint8, t BlockTable, workers int) ([][][]int32, error) {
	b, err := BasisFor(t.Size())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := t.Validate(b.Size()); err != nil {
		return nil, errors.WithStack(err)
	}
	out := make([][][]int32, len(blocks))
	err = parallelFor(len(blocks), workers, func(i int) error {
		coef, err := b.Forward(blocks[i])
		if err != nil {
			return errors.Wrapf(err, "block %d", i)
		}
		q, err := QuantizeBlock(coef, t)
		if err != nil {
			return errors.Wrapf(err, "block %d", i)
		}
		out[i] = q
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}
