package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStalled is matched by every *StalledError.
var ErrStalled = errors.New("unable to progress while rendering")

// StalledError reports templates that could not be resolved, either because
// a full pass made no progress or because the pass limit was reached.
type StalledError struct {
	Pending []string // dotted key paths still holding templates
	Passes  int
}

func (e *StalledError) Error() string {
	return fmt.Sprintf("%v after %d passes, pending: %s", ErrStalled, e.Passes, strings.Join(e.Pending, ", "))
}

func (e *StalledError) Is(target error) bool {
	return target == ErrStalled
}
