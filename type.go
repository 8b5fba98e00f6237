package subband

type SignedInt interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Matrix is a row-major 2-D coefficient or pixel plane.
type Matrix [][]int32

func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := 0; i < rows; i += 1 {
		m[i] = make([]int32, cols)
	}
	return m
}

func (m Matrix) Rows() int {
	return len(m)
}

func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]int32(nil), row...)
	}
	return out
}
