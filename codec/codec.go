package codec

import (
	"image"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/octu0/subband"
)

var (
	ErrKind = errors.New("stream kind does not match decoder")
)

type Codec struct {
	cfg Config
	tr  subband.Transformer
}

// New validates the configuration up front so no stage ever starts on a
// bad plan or table.
func New(funcs ...OptionFunc) (*Codec, error) {
	cfg := DefaultConfig(funcs...)
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Codec{cfg: cfg, tr: subband.Transformer{Workers: cfg.Workers}}, nil
}

func (c *Codec) Config() Config {
	return c.cfg
}

func (c *Codec) log() *slog.Logger {
	return c.cfg.Logger
}

// EncodeWavelet decomposes img by the configured plan and entropy codes the
// run-length compressed flattening of the tree.
func (c *Codec) EncodeWavelet(img *image.Gray) (*Stream, error) {
	t := time.Now()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	tree, err := c.tr.Build(subband.GrayMatrix(img), c.cfg.Plan, c.cfg.SubbandTable)
	if err != nil {
		return nil, errors.Wrapf(err, "decompose %dx%d", w, h)
	}
	coef, lengths := subband.Flatten(tree)
	rle := subband.RunLengthEncode(coef)
	c.log().Debug("wavelet flattened",
		slog.Int("width", w),
		slog.Int("height", h),
		slog.String("plan", c.cfg.Plan.String()),
		slog.String("lengths", lengths.String()),
		slog.Int("coefficients", len(coef)),
		slog.Int("runlength", len(rle)),
	)

	bits, codes, err := c.cfg.Coder.Encode(rle)
	if err != nil {
		return nil, errors.Wrap(err, "entropy encode")
	}
	c.log().Debug("wavelet encoded",
		slog.Int("bits", bits.Len),
		slog.Int("codes", len(codes)),
		slog.Duration("elapse", time.Since(t)),
	)
	return &Stream{
		Kind:         KindWavelet,
		Width:        w,
		Height:       h,
		Plan:         c.cfg.Plan,
		SubbandTable: c.cfg.SubbandTable,
		Lengths:      lengths,
		Codes:        codes,
		Bits:         bits,
	}, nil
}

// DecodeWavelet restores the quantized subband tree of a wavelet stream.
func (c *Codec) DecodeWavelet(s *Stream) (*subband.Node, error) {
	if s.Kind != KindWavelet {
		return nil, errors.Wrapf(ErrKind, "expected %s, got %s", KindWavelet, s.Kind)
	}
	if s.Lengths == nil {
		return nil, errors.Wrap(subband.ErrLengthMismatch, "wavelet stream has no length record")
	}
	if err := s.Lengths.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	// every decomposition tree covers the whole image
	if total := s.Lengths.Total(); total != s.Width*s.Height {
		return nil, errors.Wrapf(subband.ErrLengthMismatch, "record describes %d coefficients, %dx%d image has %d", total, s.Width, s.Height, s.Width*s.Height)
	}
	coef, err := c.expand(s, s.Width*s.Height)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	tree, err := subband.Rebuild(coef, s.Lengths, s.Height, s.Width)
	if err != nil {
		return nil, errors.Wrap(err, "rebuild")
	}
	c.log().Debug("wavelet decoded",
		slog.Int("leaves", tree.Leaves()),
		slog.Int("depth", tree.Depth()),
	)
	return tree, nil
}

// expand undoes the entropy and run-length stages, requiring exactly want
// coefficients.
func (c *Codec) expand(s *Stream, want int) ([]int32, error) {
	if want < 0 {
		return nil, errors.Wrapf(subband.ErrLengthMismatch, "negative coefficient count %d", want)
	}
	symbols, err := c.cfg.Coder.Decode(s.Bits, s.Codes)
	if err != nil {
		return nil, errors.Wrap(err, "entropy decode")
	}
	coef, err := subband.RunLengthDecodeLimit(symbols, want)
	if err != nil {
		return nil, errors.Wrap(err, "run-length decode")
	}
	if len(coef) != want {
		return nil, errors.Wrapf(subband.ErrLengthMismatch, "expected %d coefficients, got %d", want, len(coef))
	}
	return coef, nil
}

// EncodeBlocks cosine transforms and quantizes every block of img and
// entropy codes the run-length compressed zigzag scans.
func (c *Codec) EncodeBlocks(img *image.Gray) (*Stream, error) {
	t := time.Now()
	size := c.cfg.BlockSize
	blocks, nRows, nCols, err := subband.SplitBlocks(img, size)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	quantized, err := c.tr.ForwardBlocks(blocks, c.cfg.BlockTable)
	if err != nil {
		return nil, errors.Wrap(err, "forward transform")
	}
	coef := subband.SerializeBlocks(quantized)
	rle := subband.RunLengthEncode(coef)
	c.log().Debug("blocks serialized",
		slog.Int("rows", nRows),
		slog.Int("cols", nCols),
		slog.Int("size", size),
		slog.Int("coefficients", len(coef)),
		slog.Int("runlength", len(rle)),
	)

	bits, codes, err := c.cfg.Coder.Encode(rle)
	if err != nil {
		return nil, errors.Wrap(err, "entropy encode")
	}
	c.log().Debug("blocks encoded",
		slog.Int("bits", bits.Len),
		slog.Int("codes", len(codes)),
		slog.Duration("elapse", time.Since(t)),
	)
	return &Stream{
		Kind:       KindBlock,
		Width:      nCols * size,
		Height:     nRows * size,
		BlockSize:  size,
		BlockTable: c.cfg.BlockTable,
		Codes:      codes,
		Bits:       bits,
	}, nil
}

// DecodeBlocks reconstructs the image of a block stream using the table
// carried by the stream.
func (c *Codec) DecodeBlocks(s *Stream) (*image.Gray, error) {
	t := time.Now()
	if s.Kind != KindBlock {
		return nil, errors.Wrapf(ErrKind, "expected %s, got %s", KindBlock, s.Kind)
	}
	size := s.BlockSize
	if size <= 0 || s.Width%size != 0 || s.Height%size != 0 {
		return nil, errors.Wrapf(subband.ErrBlockLayout, "%dx%d image with block size %d", s.Width, s.Height, size)
	}
	if err := s.BlockTable.Validate(size); err != nil {
		return nil, errors.WithStack(err)
	}
	nRows, nCols := s.Height/size, s.Width/size

	coef, err := c.expand(s, nRows*nCols*size*size)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	quantized, err := subband.DeserializeBlocks(coef, nRows*nCols, size, size)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	dequantized, err := subband.DequantizeBlocks(quantized, s.BlockTable)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	pixels, err := c.tr.InverseBlocks(dequantized, size)
	if err != nil {
		return nil, errors.Wrap(err, "inverse transform")
	}
	img, err := subband.Reassemble(pixels, nRows, nCols, size)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	c.log().Debug("blocks decoded",
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Duration("elapse", time.Since(t)),
	)
	return img, nil
}
