package subband

import (
	"github.com/pkg/errors"
)

// Decompose splits m into its four quantized subbands. Both kernels are run
// over every row, then over every column of the two row outputs; the four
// results are decimated to their even rows and columns and divided by the
// divisor of their role.
func Decompose(m Matrix, q SubbandTable) (*Node, error) {
	return decompose(m, q, 0)
}

func checkDimension(m Matrix) error {
	rows, cols := m.Rows(), m.Cols()
	minLen := max(LowPass.MinLength(), HighPass.MinLength())
	if rows < minLen || cols < minLen {
		return errors.Wrapf(ErrDimension, "%dx%d is smaller than filter minimum %d", rows, cols, minLen)
	}
	if rows%2 != 0 || cols%2 != 0 {
		return errors.Wrapf(ErrDimension, "%dx%d is not divisible by 2", rows, cols)
	}
	for y, row := range m {
		if len(row) != cols {
			return errors.Wrapf(ErrDimension, "row %d: expected %d columns, got %d", y, cols, len(row))
		}
	}
	return nil
}

func decompose(m Matrix, q SubbandTable, workers int) (*Node, error) {
	if err := q.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := checkDimension(m); err != nil {
		return nil, errors.WithStack(err)
	}

	rows, cols := m.Rows(), m.Cols()
	low := make([][]float64, rows)
	high := make([][]float64, rows)
	err := parallelFor(rows, workers, func(y int) error {
		src := make([]float64, cols)
		for x, v := range m[y] {
			src[x] = float64(v)
		}
		low[y] = make([]float64, cols)
		high[y] = make([]float64, cols)
		if err := filterInto(LowPass, src, low[y]); err != nil {
			return errors.Wrapf(err, "row %d", y)
		}
		if err := filterInto(HighPass, src, high[y]); err != nil {
			return errors.Wrapf(err, "row %d", y)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	halfRows, halfCols := rows/2, cols/2
	bands := [4]Matrix{}
	for _, r := range roles {
		bands[r] = NewMatrix(halfRows, halfCols)
	}

	// only even columns survive decimation, so odd ones are never filtered
	err = parallelFor(halfCols, workers, func(hx int) error {
		x := hx * 2
		lowCol := make([]float64, rows)
		highCol := make([]float64, rows)
		for y := 0; y < rows; y += 1 {
			lowCol[y] = low[y][x]
			highCol[y] = high[y][x]
		}

		out := [4][]float64{}
		srcs := [4][]float64{lowCol, lowCol, highCol, highCol}
		kernels := [4]Kernel{LowPass, HighPass, LowPass, HighPass}
		for _, r := range roles {
			out[r] = make([]float64, rows)
			if err := filterInto(kernels[r], srcs[r], out[r]); err != nil {
				return errors.Wrapf(err, "column %d %s", x, r)
			}
		}
		for _, r := range roles {
			for hy := 0; hy < halfRows; hy += 1 {
				bands[r][hy][hx] = Quantize(out[r][hy*2], q[r])
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return NewBranch(
		NewLeaf(bands[LL]),
		NewLeaf(bands[LH]),
		NewLeaf(bands[HL]),
		NewLeaf(bands[HH]),
	), nil
}

// Build decomposes m once and then applies plan to the resulting subbands.
func Build(m Matrix, plan Plan, q SubbandTable) (*Node, error) {
	return build(m, plan, q, 0)
}

func build(m Matrix, plan Plan, q SubbandTable, workers int) (*Node, error) {
	if err := plan.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	root, err := decompose(m, q, workers)
	if err != nil {
		return nil, errors.Wrap(err, "root")
	}
	if err := expand(root, plan, q, workers, "root"); err != nil {
		return nil, errors.WithStack(err)
	}
	return root, nil
}

// Expand decomposes the leaves of branch n named by plan, recursing into
// each new branch with the nested plan. n is only modified when every split
// succeeds.
func Expand(n *Node, plan Plan, q SubbandTable) error {
	if err := plan.Validate(); err != nil {
		return errors.WithStack(err)
	}
	return expand(n, plan, q, 0, "root")
}

func expand(n *Node, plan Plan, q SubbandTable, workers int, path string) error {
	if len(plan) == 0 {
		return nil
	}
	if n.IsLeaf() {
		return errors.Wrapf(ErrInvalidPlan, "%s: not a decomposed subband", path)
	}

	results := make([]*Node, len(plan))
	err := parallelFor(len(plan), len(plan), func(i int) error {
		s := plan[i]
		subpath := path + "/" + s.Role.String()
		child := n.Children[s.Role]
		if child.IsLeaf() != true {
			return errors.Wrapf(ErrInvalidPlan, "%s: already decomposed", subpath)
		}
		sub, err := decompose(child.Leaf, q, workers)
		if err != nil {
			return errors.Wrap(err, subpath)
		}
		if err := expand(sub, s.Next, q, workers, subpath); err != nil {
			return err
		}
		results[i] = sub
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}
	for i, s := range plan {
		n.Children[s.Role] = results[i]
	}
	return nil
}
