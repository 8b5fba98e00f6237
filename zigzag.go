package subband

import (
	"github.com/pkg/errors"
)

// Position is a (row, col) cell of a block.
type Position struct {
	Row, Col int
}

// ZigzagOrder returns the anti-diagonal scan of a rows x cols block,
// starting at (0,0) and moving right first.
func ZigzagOrder(rows, cols int) []Position {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	maxN := rows * cols
	order := make([]Position, maxN)
	row, col := 0, 0
	goingUp := true

	for i := 0; i < maxN; i += 1 {
		order[i] = Position{row, col}

		cursor(rows, cols, &row, &col, &goingUp)
	}
	return order
}

func Zigzag[T Signed](matrix [][]T) []T {
	rows := len(matrix)
	if rows == 0 {
		return []T{}
	}
	cols := len(matrix[0])

	result := make([]T, rows*cols)
	for i, p := range ZigzagOrder(rows, cols) {
		result[i] = matrix[p.Row][p.Col]
	}
	return result
}

func Unzigzag[T Signed](data []T, rows, cols int) ([][]T, error) {
	if len(data) != rows*cols {
		return nil, errors.Wrapf(ErrStreamLength, "unzigzag %dx%d: expected %d values, got %d", rows, cols, rows*cols, len(data))
	}
	return unzigzag(data, rows, cols, ZigzagOrder(rows, cols)), nil
}

func unzigzag[T Signed](data []T, rows, cols int, order []Position) [][]T {
	result := make([][]T, rows)
	for i := 0; i < rows; i += 1 {
		result[i] = make([]T, cols)
	}
	for i, p := range order {
		result[p.Row][p.Col] = data[i]
	}
	return result
}

// SerializeBlocks concatenates the zigzag scan of every block in order.
func SerializeBlocks[T Signed](blocks [][][]T) []T {
	if len(blocks) == 0 {
		return []T{}
	}
	rows := len(blocks[0])
	cols := 0
	if 0 < rows {
		cols = len(blocks[0][0])
	}
	order := ZigzagOrder(rows, cols)

	result := make([]T, 0, len(blocks)*rows*cols)
	for _, b := range blocks {
		for _, p := range order {
			result = append(result, b[p.Row][p.Col])
		}
	}
	return result
}

// DeserializeBlocks cuts data into n consecutive rows x cols zigzag scans.
func DeserializeBlocks[T Signed](data []T, n, rows, cols int) ([][][]T, error) {
	if n < 0 || rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrStreamLength, "deserialize: invalid layout %d blocks of %dx%d", n, rows, cols)
	}
	size := rows * cols
	if len(data) != n*size {
		return nil, errors.Wrapf(ErrStreamLength, "deserialize %d blocks of %dx%d: expected %d values, got %d", n, rows, cols, n*size, len(data))
	}
	order := ZigzagOrder(rows, cols)

	blocks := make([][][]T, n)
	for i := 0; i < n; i += 1 {
		blocks[i] = unzigzag(data[i*size:(i+1)*size], rows, cols, order)
	}
	return blocks, nil
}

func cursor(rows, cols int, row, col *int, up *bool) {
	if *up {
		switch {
		case *col == cols-1:
			*row += 1
			*up = false
		case *row == 0:
			*col += 1
			*up = false
		default:
			*row -= 1
			*col += 1
		}
	} else {
		switch {
		case *row == rows-1:
			*col += 1
			*up = true
		case *col == 0:
			*row += 1
			*up = true
		default:
			*row += 1
			*col -= 1
		}
	}
}
