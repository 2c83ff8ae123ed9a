package tournament

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence marks a rating table that could not be saved or loaded.
	ErrPersistence = errors.New("persistence error")

	// ErrNotEnoughAgents is returned by Play when the roster cannot fill a
	// table.
	ErrNotEnoughAgents = errors.New("not enough agents")
)

// PersistenceError reports a failed save or load. Line is 1-based and zero
// when the failure is not tied to a record.
type PersistenceError struct {
	Path string
	Line int
	Err  error
}

func (e *PersistenceError) Error() string {
	where := e.Path
	if where == "" {
		where = "state"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", where, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
