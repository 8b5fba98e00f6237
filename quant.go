package subband

import (
	"math"

	"github.com/pkg/errors"
)

// SubbandTable holds one divisor per subband role, indexed by Role.
type SubbandTable [4]int32

var UnitSubbandTable = SubbandTable{1, 1, 1, 1}

func (t SubbandTable) Validate() error {
	for i, d := range t {
		if d <= 0 {
			return errors.Wrapf(ErrInvalidTable, "%s divisor %d", Role(i), d)
		}
	}
	return nil
}

// BlockTable holds one divisor per coefficient position of a square block.
type BlockTable [][]int32

// DefaultBlockTable is the standard 8x8 luminance table.
var DefaultBlockTable = BlockTable{
	{16, 11, 10, 16, 24, 40, 51, 61},
	{12, 12, 14, 19, 26, 58, 60, 55},
	{14, 13, 16, 24, 40, 57, 69, 56},
	{14, 17, 22, 29, 51, 87, 80, 62},
	{18, 22, 37, 56, 68, 109, 103, 77},
	{24, 35, 55, 64, 81, 104, 113, 92},
	{49, 64, 78, 87, 103, 121, 120, 101},
	{72, 92, 95, 98, 112, 100, 103, 99},
}

func UnitBlockTable(size int) BlockTable {
	t := make(BlockTable, size)
	for i := 0; i < size; i += 1 {
		t[i] = make([]int32, size)
		for j := 0; j < size; j += 1 {
			t[i][j] = 1
		}
	}
	return t
}

func (t BlockTable) Size() int {
	return len(t)
}

func (t BlockTable) Validate(size int) error {
	if len(t) != size {
		return errors.Wrapf(ErrInvalidTable, "expected %d rows, got %d", size, len(t))
	}
	for y, row := range t {
		if len(row) != size {
			return errors.Wrapf(ErrInvalidTable, "row %d: expected %d columns, got %d", y, size, len(row))
		}
		for x, d := range row {
			if d <= 0 {
				return errors.Wrapf(ErrInvalidTable, "(%d,%d) divisor %d", y, x, d)
			}
		}
	}
	return nil
}

// Quantize divides v by d and rounds half to even.
func Quantize(v float64, d int32) int32 {
	return int32(math.RoundToEven(v / float64(d)))
}

func Dequantize(v, d int32) int32 {
	return v * d
}

func QuantizeBlock(block [][]float64, t BlockTable) ([][]int32, error) {
	if err := t.Validate(len(block)); err != nil {
		return nil, errors.WithStack(err)
	}
	out := make([][]int32, len(block))
	for y, row := range block {
		if len(row) != len(t[y]) {
			return nil, errors.Wrapf(ErrInvalidTable, "block row %d: expected %d columns, got %d", y, len(t[y]), len(row))
		}
		out[y] = make([]int32, len(row))
		for x, v := range row {
			out[y][x] = Quantize(v, t[y][x])
		}
	}
	return out, nil
}

func DequantizeBlock(block [][]int32, t BlockTable) ([][]int32, error) {
	if err := t.Validate(len(block)); err != nil {
		return nil, errors.WithStack(err)
	}
	out := make([][]int32, len(block))
	for y, row := range block {
		if len(row) != len(t[y]) {
			return nil, errors.Wrapf(ErrInvalidTable, "block row %d: expected %d columns, got %d", y, len(t[y]), len(row))
		}
		out[y] = make([]int32, len(row))
		for x, v := range row {
			out[y][x] = Dequantize(v, t[y][x])
		}
	}
	return out, nil
}

// DequantizeBlocks applies t to every block of a block set.
func DequantizeBlocks(blocks [][][]int32, t BlockTable) ([][][]int32, error) {
	out := make([][][]int32, len(blocks))
	for i, b := range blocks {
		d, err := DequantizeBlock(b, t)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		out[i] = d
	}
	return out, nil
}
