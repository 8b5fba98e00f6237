package subband

import (
	"github.com/pkg/errors"
)

// Kernel is a FIR kernel whose Center is the index of the zero-lag tap.
type Kernel struct {
	Taps   []float64
	Center int
}

var (
	LowPass = Kernel{
		Taps:   []float64{-0.125, 0.25, 0.75, 0.25, -0.125},
		Center: 2,
	}
	HighPass = Kernel{
		Taps:   []float64{-0.5, 1, -0.5},
		Center: 2,
	}
)

func (k Kernel) LeftPad() int {
	return len(k.Taps) - k.Center - 1
}

func (k Kernel) RightPad() int {
	return k.Center
}

// MinLength is the shortest sequence the mirror extension can index.
func (k Kernel) MinLength() int {
	return max(k.LeftPad(), k.RightPad()) + 1
}

func (k Kernel) Validate() error {
	if len(k.Taps) == 0 {
		return errors.Wrap(ErrInvalidKernel, "no taps")
	}
	if k.Center < 0 || len(k.Taps) <= k.Center {
		return errors.Wrapf(ErrInvalidKernel, "center %d outside %d taps", k.Center, len(k.Taps))
	}
	return nil
}

// Filter returns the same-length convolution of in with k. The sequence is
// mirror-extended on both sides without repeating the edge sample.
func Filter(k Kernel, in []float64) ([]float64, error) {
	out := make([]float64, len(in))
	if err := filterInto(k, in, out); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

func filterInto(k Kernel, in, out []float64) error {
	if err := k.Validate(); err != nil {
		return errors.WithStack(err)
	}
	n := len(in)
	if n < k.MinLength() {
		return errors.Wrapf(ErrFilterPrecondition, "filter: need at least %d samples, got %d", k.MinLength(), n)
	}

	left, right := k.LeftPad(), k.RightPad()
	padded := make([]float64, 0, left+n+right)
	for i := left; 1 <= i; i -= 1 {
		padded = append(padded, in[i])
	}
	padded = append(padded, in...)
	for i := n - 2; n-2-right < i; i -= 1 {
		padded = append(padded, in[i])
	}

	// valid region of the convolution with the reversed taps
	for i := 0; i < n; i += 1 {
		sum := 0.0
		for j, t := range k.Taps {
			sum += t * padded[i+j]
		}
		out[i] = sum
	}
	return nil
}
