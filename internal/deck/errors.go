package deck

import (
	"errors"
	"fmt"
)

// ErrNoValidCards is wrapped in a GeneratorError when every candidate of a
// non-empty batch failed validation.
var ErrNoValidCards = errors.New("no valid cards in generator output")

// GeneratorError wraps any failure on the generation path: provider
// errors, timeouts and batches with no valid cards. FetchCards recovers
// from it with bundled cards; Prefetch reports it in PrefetchResult.Err.
type GeneratorError struct {
	Err error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("card generator: %v", e.Err)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}
