package imagesource

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFit(t *testing.T) {
	tests := []struct {
		n, depth, expect int
	}{
		{20, 2, 20},
		{30, 2, 32},
		{10, 2, 8},
		{14, 2, 16},
		{1, 3, 8},
		{33, 0, 33},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expect, Fit(tc.n, tc.depth), "Fit(%d, %d)", tc.n, tc.depth)
	}
}

func TestPrepare(t *testing.T) {
	t.Run("resize", func(tt *testing.T) {
		img, err := Prepare(uniformRGBA(30, 20, color.RGBA{100, 100, 100, 255}), 2)
		require.NoError(tt, err)
		assert.Equal(tt, image.Rect(0, 0, 32, 20), img.Gray.Bounds())
		assert.Equal(tt, 0, img.Aspect.Cmp(big.NewRat(5, 8)))
		for _, p := range img.Gray.Pix {
			assert.InDelta(tt, 100, int(p), 1)
		}
	})
	t.Run("gray kept", func(tt *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 16, 8))
		img, err := Prepare(src, 3)
		require.NoError(tt, err)
		assert.Same(tt, src, img.Gray)
		assert.Equal(tt, "1/2", img.Aspect.RatString())
	})
	t.Run("depth", func(tt *testing.T) {
		_, err := Prepare(image.NewGray(image.Rect(0, 0, 8, 8)), -1)
		assert.True(tt, errors.Is(err, ErrDepth))
	})
}

func TestLoadSave(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, uniformRGBA(24, 16, color.RGBA{200, 200, 200, 255})))

	img, err := Load(buf, 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24, 16), img.Gray.Bounds())

	out := bytes.NewBuffer(nil)
	require.NoError(t, Save(out, img.Gray))
	decoded, err := png.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, img.Gray.Bounds(), decoded.Bounds())

	_, err = Load(bytes.NewReader([]byte("not an image")), 3)
	assert.Error(t, err)
}
