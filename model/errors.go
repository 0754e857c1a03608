package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput covers structurally broken tables: cyclic tie
	// references, missing required fields.
	ErrMalformedInput = errors.New("malformed input")

	// ErrCountMismatch means the squashed note count and the event count
	// disagree, so positional alignment is meaningless.
	ErrCountMismatch = errors.New("note/event count mismatch")

	// ErrMisalignment means a run of consecutive pitch-class mismatches
	// showed the two orderings have desynchronized.
	ErrMisalignment = errors.New("structural misalignment")
)

// StageError is the terminal diagnostic for a failed run: which stage, which
// record, and what was wrong with it.
type StageError struct {
	Stage  string
	Index  int
	Kind   error
	Detail string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: record %d: %s: %s", e.Stage, e.Index, e.Kind, e.Detail)
}

func (e *StageError) Unwrap() error {
	return e.Kind
}

func NewStageError(stage string, index int, kind error, format string, args ...any) *StageError {
	return &StageError{
		Stage:  stage,
		Index:  index,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}
