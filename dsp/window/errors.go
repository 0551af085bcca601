package window

import (
	"errors"
	"fmt"
)

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroCoherentGain = errors.New("window coherent gain is zero")
	errMismatchedLength = errors.New("samples and coefficients must have same length")

	// ErrUnknownType is returned by ParseType for names that match no window.
	ErrUnknownType = errors.New("unknown window type")
)

func unknownTypeError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, name)
}

func validateTableSize(size int) error {
	if size < 2 {
		return fmt.Errorf("window table size must be >= 2: %d", size)
	}
	return nil
}
