package classifier

import (
	"errors"
	"fmt"
)

// ErrPredictionMismatch is matched by every *MismatchError via errors.Is.
var ErrPredictionMismatch = errors.New("prediction mismatch")

// MismatchError is returned when a digit's feature vector equals none of the
// canonical patterns. It carries the vector so operators can see which
// segments were misread.
type MismatchError struct {
	Features FeatureVector
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("features match no digit 0-9: %s", e.Features)
}

// Is reports whether target is ErrPredictionMismatch.
func (e *MismatchError) Is(target error) bool {
	return target == ErrPredictionMismatch
}
