package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/octu0/subband"
	"github.com/octu0/subband/codec"
	"github.com/octu0/subband/container"
	"github.com/octu0/subband/imagesource"
)

func readStream(path string) (*codec.Stream, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer in.Close()

	s, err := container.Read(in)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return s, nil
}

func decodeCommand() *cobra.Command {
	var in, out, reference string
	var workers int
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "reconstruct a block stream as PNG, or verify a wavelet stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(in, out, reference, workers)
		},
	}
	cmd.Flags().StringVarP(&in, "input", "i", "", "encoded stream")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output PNG")
	cmd.Flags().StringVar(&reference, "reference", "", "image to report PSNR against")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines per stage, 0 for GOMAXPROCS")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runDecode(in, out, reference string, workers int) error {
	log := logger()

	s, err := readStream(in)
	if err != nil {
		return errors.WithStack(err)
	}
	c, err := codec.New(codec.WithLogger(log), codec.WithWorkers(workers))
	if err != nil {
		return errors.WithStack(err)
	}
	if s.Kind != codec.KindBlock {
		tree, err := c.DecodeWavelet(s)
		if err != nil {
			return errors.WithStack(err)
		}
		log.Info("decoded subband tree, no raster written",
			slog.String("kind", s.Kind.String()),
			slog.Int("depth", tree.Depth()),
			slog.Int("leaves", tree.Leaves()),
			slog.String("lengths", s.Lengths.String()),
		)
		return nil
	}

	img, err := c.DecodeBlocks(s)
	if err != nil {
		return errors.WithStack(err)
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if err := imagesource.Save(f, img); err != nil {
		return errors.WithStack(err)
	}
	log.Info("decoded", slog.String("path", out), slog.Int("width", s.Width), slog.Int("height", s.Height))

	if reference == "" {
		return nil
	}
	ref, err := os.Open(reference)
	if err != nil {
		return errors.WithStack(err)
	}
	defer ref.Close()

	depth := 0
	for size := s.BlockSize; 1 < size; size >>= 1 {
		depth += 1
	}
	src, err := imagesource.Load(ref, depth)
	if err != nil {
		return errors.WithStack(err)
	}
	log.Info("quality", slog.String("psnr", fmt.Sprintf("%3.2fdB", subband.PSNR(src.Gray, img))))
	return nil
}

func inspectCommand() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "print the layout of an encoded stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readStream(in)
			if err != nil {
				return errors.WithStack(err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "kind:         %s\n", s.Kind)
			fmt.Fprintf(w, "size:         %dx%d\n", s.Width, s.Height)
			switch s.Kind {
			case codec.KindWavelet:
				fmt.Fprintf(w, "plan:         %s\n", s.Plan)
				fmt.Fprintf(w, "quant:        %v\n", s.SubbandTable)
				fmt.Fprintf(w, "lengths:      %s\n", s.Lengths)
			case codec.KindBlock:
				fmt.Fprintf(w, "block size:   %d\n", s.BlockSize)
			}
			fmt.Fprintf(w, "coefficients: %d\n", s.Coefficients())
			fmt.Fprintf(w, "codes:        %d\n", len(s.Codes))
			fmt.Fprintf(w, "bits:         %d\n", s.Bits.Len)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "input", "i", "", "encoded stream")
	cmd.MarkFlagRequired("input")
	return cmd
}
