package module

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmatchedEnd is returned for an end marker whose module has no begin marker.
	ErrUnmatchedEnd = errors.New("unmatched end marker")

	// ErrUnterminatedModule is returned for a module whose end marker never appears.
	ErrUnterminatedModule = errors.New("module never closed")

	// ErrDuplicateModule is returned for a repeated begin marker when duplicates are rejected.
	ErrDuplicateModule = errors.New("duplicate begin marker")

	// ErrDuplicateEnd is returned for a second end marker of the same module.
	ErrDuplicateEnd = errors.New("duplicate end marker")

	// ErrUnknownModule is returned when asking a binary for a module it does not contain.
	ErrUnknownModule = errors.New("unknown module")

	// ErrNoModules is returned when modules are required and none were found.
	ErrNoModules = errors.New("no OCaml modules found")
)

// MarkerError locates a boundary marker problem in a symbol listing.
type MarkerError struct {
	// Line is the 1-based line number, or 0 when the problem is not tied to a line.
	Line int
	Name string
	Err  error
}

func (e *MarkerError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: module %s: %v", e.Line, e.Name, e.Err)
	}
	return fmt.Sprintf("module %s: %v", e.Name, e.Err)
}

func (e *MarkerError) Unwrap() error {
	return e.Err
}
