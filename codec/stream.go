package codec

import (
	"github.com/octu0/subband"
)

type Kind uint8

const (
	KindWavelet Kind = 1
	KindBlock   Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindWavelet:
		return "wavelet"
	case KindBlock:
		return "block"
	}
	return "unknown"
}

// Stream is everything needed to invert one encoding: the entropy-coded
// bits, their code table and the layout the coefficients were flattened
// from.
type Stream struct {
	Kind   Kind
	Width  int
	Height int

	// wavelet path
	Plan         subband.Plan
	SubbandTable subband.SubbandTable
	Lengths      *subband.Lengths

	// block path
	BlockSize  int
	BlockTable subband.BlockTable

	Codes subband.CodeTable
	Bits  subband.Bits
}

// Coefficients is the number of coefficients the stream expands to.
func (s *Stream) Coefficients() int {
	if s.Kind == KindWavelet && s.Lengths != nil {
		return s.Lengths.Total()
	}
	return s.Width * s.Height
}
