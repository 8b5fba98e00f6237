package main

import (
	"log/slog"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/octu0/subband"
	"github.com/octu0/subband/codec"
	"github.com/octu0/subband/container"
	"github.com/octu0/subband/imagesource"
)

type encodeFlags struct {
	in          string
	out         string
	mode        string
	plan        string
	quant       string
	blockSize   int
	unitTable   bool
	compression string
	workers     int
}

func encodeCommand() *cobra.Command {
	f := encodeFlags{}
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "encode an image into a subband stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(f)
		},
	}
	cmd.Flags().StringVarP(&f.in, "input", "i", "", "input image (png, jpeg, gif)")
	cmd.Flags().StringVarP(&f.out, "output", "o", "", "output stream")
	cmd.Flags().StringVar(&f.mode, "mode", "wavelet", "wavelet or block")
	cmd.Flags().StringVar(&f.plan, "plan", "[[0]]", "decomposition plan applied after the first level")
	cmd.Flags().StringVar(&f.quant, "quant", "1,1,1,1", "LL,LH,HL,HH divisors")
	cmd.Flags().IntVar(&f.blockSize, "block-size", codec.DefaultBlockSize, "block size of the block mode")
	cmd.Flags().BoolVar(&f.unitTable, "unit-table", false, "quantize blocks by 1 instead of the luminance table")
	cmd.Flags().StringVar(&f.compression, "compression", "zstd", "none, runlength or zstd")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "goroutines per stage, 0 for GOMAXPROCS")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func parseSubbandTable(s string) (subband.SubbandTable, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return subband.SubbandTable{}, errors.Wrapf(subband.ErrInvalidTable, "expected 4 divisors, got %q", s)
	}
	t := subband.SubbandTable{}
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return subband.SubbandTable{}, errors.Wrapf(subband.ErrInvalidTable, "divisor %q: %v", p, err)
		}
		t[i] = int32(v)
	}
	return t, nil
}

func runEncode(f encodeFlags) error {
	log := logger()

	plan, err := subband.ParsePlan(f.plan)
	if err != nil {
		return errors.WithStack(err)
	}
	table, err := parseSubbandTable(f.quant)
	if err != nil {
		return errors.WithStack(err)
	}
	compression, err := container.ParseCompression(f.compression)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := []codec.OptionFunc{
		codec.WithPlan(plan),
		codec.WithSubbandTable(table),
		codec.WithWorkers(f.workers),
		codec.WithLogger(log),
	}
	if f.unitTable || f.blockSize != codec.DefaultBlockSize {
		opts = append(opts, codec.WithBlockTable(subband.UnitBlockTable(f.blockSize)))
	}
	c, err := codec.New(opts...)
	if err != nil {
		return errors.WithStack(err)
	}

	depth := 0
	switch f.mode {
	case "wavelet":
		depth = plan.Depth() + 1
	case "block":
		if f.blockSize <= 0 || bits.OnesCount(uint(f.blockSize)) != 1 {
			return errors.Errorf("block size %d is not a power of two", f.blockSize)
		}
		depth = bits.TrailingZeros(uint(f.blockSize))
	default:
		return errors.Errorf("unknown mode %q", f.mode)
	}

	in, err := os.Open(f.in)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	src, err := imagesource.Load(in, depth)
	if err != nil {
		return errors.WithStack(err)
	}
	b := src.Gray.Bounds()
	log.Info("loaded",
		slog.String("path", f.in),
		slog.Int("width", b.Dx()),
		slog.Int("height", b.Dy()),
		slog.String("aspect", src.Aspect.String()),
	)

	var s *codec.Stream
	if f.mode == "wavelet" {
		s, err = c.EncodeWavelet(src.Gray)
	} else {
		s, err = c.EncodeBlocks(src.Gray)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	out, err := os.Create(f.out)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	if err := container.Write(out, s, compression); err != nil {
		return errors.WithStack(err)
	}
	info, err := out.Stat()
	if err != nil {
		return errors.WithStack(err)
	}
	log.Info("encoded",
		slog.String("path", f.out),
		slog.String("mode", s.Kind.String()),
		slog.String("compression", compression.String()),
		slog.Int64("bytes", info.Size()),
		slog.Float64("ratio", float64(info.Size())/float64(b.Dx()*b.Dy())),
	)
	return nil
}
