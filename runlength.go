package subband

import (
	"github.com/pkg/errors"
)

// RunLengthEncode keeps non-zero values as literals and replaces every run
// of n+1 zeros with the pair (0, n). Runs longer than T can count are split.
func RunLengthEncode[T SignedInt](data []T) []T {
	out := make([]T, 0, len(data))
	inRun := false
	run := T(0)
	for _, v := range data {
		if v != 0 {
			if inRun {
				out = append(out, 0, run)
				inRun = false
			}
			out = append(out, v)
			continue
		}
		switch {
		case inRun != true:
			inRun = true
			run = 0
		case run+1 < run:
			out = append(out, 0, run)
			run = 0
		default:
			run += 1
		}
	}
	if inRun {
		out = append(out, 0, run)
	}
	return out
}

// RunLengthDecode expands a stream produced by RunLengthEncode.
func RunLengthDecode[T SignedInt](data []T) ([]T, error) {
	return RunLengthDecodeLimit(data, -1)
}

// RunLengthDecodeLimit is RunLengthDecode failing as soon as the expanded
// stream would exceed limit values. A negative limit disables the check.
func RunLengthDecodeLimit[T SignedInt](data []T, limit int) ([]T, error) {
	out := make([]T, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] != 0 {
			if 0 <= limit && limit <= len(out) {
				return nil, errors.Wrapf(ErrMalformedRun, "literal at %d exceeds limit %d", i, limit)
			}
			out = append(out, data[i])
			i += 1
			continue
		}
		if len(data) <= i+1 {
			return nil, errors.Wrapf(ErrMalformedRun, "zero marker at %d has no count", i)
		}
		n := data[i+1]
		if n < 0 {
			return nil, errors.Wrapf(ErrMalformedRun, "negative run count %d at %d", n, i+1)
		}
		if 0 <= limit && int64(limit-len(out)) < int64(n)+1 {
			return nil, errors.Wrapf(ErrMalformedRun, "run of %d zeros at %d exceeds limit %d", int64(n)+1, i, limit)
		}
		for j := int64(0); j <= int64(n); j += 1 {
			out = append(out, 0)
		}
		i += 2
	}
	return out, nil
}
