package subband

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestReassemble(t *testing.T) {
	t.Run("layout", func(tt *testing.T) {
		blocks := [][][]uint8{
			{{1, 1}, {1, 1}},
			{{2, 2}, {2, 2}},
			{{3, 3}, {3, 3}},
			{{4, 4}, {4, 4}},
			{{5, 5}, {5, 5}},
			{{6, 6}, {6, 6}},
		}
		img, err := Reassemble(blocks, 2, 3, 2)
		if err != nil {
			tt.Fatalf("no error expected: %+v", err)
		}
		if img.Bounds() != image.Rect(0, 0, 6, 4) {
			tt.Fatalf("bounds %v", img.Bounds())
		}
		expect := []uint8{
			1, 1, 2, 2, 3, 3,
			1, 1, 2, 2, 3, 3,
			4, 4, 5, 5, 6, 6,
			4, 4, 5, 5, 6, 6,
		}
		if cmp.Equal(img.Pix, expect) != true {
			tt.Errorf("%v != %v", img.Pix, expect)
		}

		split, nRows, nCols, err := SplitBlocks(img, 2)
		if err != nil {
			tt.Fatalf("no error expected: %+v", err)
		}
		if nRows != 2 || nCols != 3 {
			tt.Errorf("grid %dx%d", nRows, nCols)
		}
		if cmp.Equal(split, blocks) != true {
			tt.Errorf("%v != %v", split, blocks)
		}
	})
	t.Run("count", func(tt *testing.T) {
		_, err := Reassemble([][][]uint8{{{1}}}, 1, 2, 1)
		if errors.Is(err, ErrBlockLayout) != true {
			tt.Errorf("expected layout error, got %v", err)
		}
	})
	t.Run("block shape", func(tt *testing.T) {
		_, err := Reassemble([][][]uint8{{{1, 2}}}, 1, 1, 2)
		if errors.Is(err, ErrBlockLayout) != true {
			tt.Errorf("expected layout error, got %v", err)
		}
	})
	t.Run("split remainder", func(tt *testing.T) {
		_, _, _, err := SplitBlocks(image.NewGray(image.Rect(0, 0, 10, 8)), 4)
		if errors.Is(err, ErrBlockLayout) != true {
			tt.Errorf("expected layout error, got %v", err)
		}
	})
}

func TestSplitBlocksSubimage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.Gray)
	blocks, _, _, err := SplitBlocks(sub, 2)
	if err != nil {
		t.Fatalf("no error expected: %+v", err)
	}
	expect := [][][]uint8{{{10, 11}, {14, 15}}}
	if cmp.Equal(blocks, expect) != true {
		t.Errorf("%v != %v", blocks, expect)
	}
	m := GrayMatrix(sub)
	if cmp.Equal(m, Matrix{{10, 11}, {14, 15}}) != true {
		t.Errorf("matrix %v", m)
	}
}

func TestPSNR(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 4, 4))
	b := image.NewGray(image.Rect(0, 0, 4, 4))
	if p := PSNR(a, b); p < 1e9 {
		t.Errorf("identical images: %v", p)
	}
	for i := range b.Pix {
		b.Pix[i] = 255
	}
	if p := PSNR(a, b); p != 0 {
		t.Errorf("maximal error: %v", p)
	}
	if p := PSNR(a, image.NewGray(image.Rect(0, 0, 2, 2))); p != 0 {
		t.Errorf("size mismatch: %v", p)
	}
}
