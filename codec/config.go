// Package codec wires the subband primitives into the two coding paths: the
// wavelet path (subband tree to stream) and the block path (cosine
// transform of fixed-size blocks, with its full inverse).
package codec

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/octu0/subband"
	"github.com/octu0/subband/huffman"
)

const DefaultBlockSize = 8

var (
	ErrInvalidConfig = errors.New("invalid codec config")
)

type Config struct {
	Plan         subband.Plan
	SubbandTable subband.SubbandTable
	BlockTable   subband.BlockTable
	BlockSize    int
	Workers      int
	Coder        subband.EntropyCoder
	Logger       *slog.Logger
}

type OptionFunc func(*Config)

func WithPlan(p subband.Plan) OptionFunc {
	return func(c *Config) {
		c.Plan = p
	}
}

func WithSubbandTable(t subband.SubbandTable) OptionFunc {
	return func(c *Config) {
		c.SubbandTable = t
	}
}

// WithBlockTable also sets the block size to the size of t.
func WithBlockTable(t subband.BlockTable) OptionFunc {
	return func(c *Config) {
		c.BlockTable = t
		c.BlockSize = t.Size()
	}
}

// WithBlockSize switches to a unit table of the given size when the current
// table does not match it.
func WithBlockSize(size int) OptionFunc {
	return func(c *Config) {
		c.BlockSize = size
		if c.BlockTable.Size() != size {
			c.BlockTable = subband.UnitBlockTable(size)
		}
	}
}

func WithWorkers(n int) OptionFunc {
	return func(c *Config) {
		c.Workers = n
	}
}

func WithCoder(coder subband.EntropyCoder) OptionFunc {
	return func(c *Config) {
		c.Coder = coder
	}
}

func WithLogger(l *slog.Logger) OptionFunc {
	return func(c *Config) {
		c.Logger = l
	}
}

// DefaultConfig decomposes LL once more, quantizes subbands by unit
// divisors and blocks by the standard 8x8 luminance table.
func DefaultConfig(funcs ...OptionFunc) Config {
	c := Config{
		Plan:         subband.Plan{{Role: subband.LL}},
		SubbandTable: subband.UnitSubbandTable,
		BlockTable:   subband.DefaultBlockTable,
		BlockSize:    DefaultBlockSize,
		Coder:        huffman.New(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, f := range funcs {
		f(&c)
	}
	return c
}

func (c Config) Validate() error {
	if err := c.Plan.Validate(); err != nil {
		return errors.Wrap(err, "plan")
	}
	if err := c.SubbandTable.Validate(); err != nil {
		return errors.Wrap(err, "subband table")
	}
	if c.BlockSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "block size %d", c.BlockSize)
	}
	if err := c.BlockTable.Validate(c.BlockSize); err != nil {
		return errors.Wrap(err, "block table")
	}
	if c.Coder == nil {
		return errors.Wrap(ErrInvalidConfig, "no entropy coder")
	}
	if c.Logger == nil {
		return errors.Wrap(ErrInvalidConfig, "no logger")
	}
	return nil
}
