package subband

import (
	"github.com/pkg/errors"
)

// configuration errors
var (
	ErrInvalidKernel      = errors.New("invalid filter kernel")
	ErrFilterPrecondition = errors.New("sequence shorter than filter pad length")
	ErrDimension          = errors.New("invalid subband dimension")
	ErrInvalidPlan        = errors.New("invalid decomposition plan")
	ErrInvalidTable       = errors.New("invalid quantization table")
)

// malformed stream errors
var (
	ErrMalformedRun    = errors.New("malformed run-length stream")
	ErrLengthMismatch  = errors.New("coefficient stream does not match length record")
	ErrStreamLength    = errors.New("stream length does not match block layout")
	ErrBlockLayout     = errors.New("block set does not match raster layout")
	ErrMalformedRecord = errors.New("malformed length record")
)
