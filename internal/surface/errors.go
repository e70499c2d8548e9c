package surface

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSurface is returned when a nil surface is bound as a child.
	ErrNilSurface = errors.New("surface: nil surface")
	// ErrNilProducer is returned when a leaf is built without a producer.
	ErrNilProducer = errors.New("surface: nil producer")
	// ErrLayoutMismatch is returned when a static layout's shape does not
	// match the children supplied.
	ErrLayoutMismatch = errors.New("surface: layout mismatch")
	// ErrUnknownBorder is returned for an unrecognized border style name.
	ErrUnknownBorder = errors.New("surface: unknown border style")
	// ErrAlreadyBound is returned when a surface that already has a parent
	// is bound under another one.
	ErrAlreadyBound = errors.New("surface: already bound to a parent")
	// ErrCycle marks a composition tree that contains itself.
	ErrCycle = errors.New("surface: cycle in composition tree")
)

// CycleError reports a structural cycle. It unwraps to ErrCycle.
type CycleError struct {
	Depth int
}

func (e *CycleError) Error() string {
	if e.Depth > 0 {
		return fmt.Sprintf("%v (depth %d)", ErrCycle, e.Depth)
	}
	return ErrCycle.Error()
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}
