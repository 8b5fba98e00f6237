package subband

import (
	"math/rand"
)

func constMatrix(rows, cols int, v int32) Matrix {
	m := NewMatrix(rows, cols)
	for y := range m {
		for x := range m[y] {
			m[y][x] = v
		}
	}
	return m
}

func randomMatrix(r *rand.Rand, rows, cols int) Matrix {
	m := NewMatrix(rows, cols)
	for y := range m {
		for x := range m[y] {
			m[y][x] = int32(r.Intn(256))
		}
	}
	return m
}

// gradientMatrix is a smooth image with some texture.
func gradientMatrix(rows, cols int) Matrix {
	m := NewMatrix(rows, cols)
	for y := range m {
		for x := range m[y] {
			m[y][x] = int32((x*3 + y*5 + (x*y)%7) % 256)
		}
	}
	return m
}
