// Package symtab provides access to symbol table listings of native binaries.
//
// A Source turns a path into a stream of `nm -n` formatted lines. The stream
// is lazy and single use: every call to Open starts over, re-invoking the
// underlying tool when there is one.
package symtab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrToolNotFound is returned when the symbol dump tool cannot be located.
	ErrToolNotFound = errors.New("symbol tool not found")

	// ErrToolFailed is returned when the symbol dump tool exits with a non-zero status.
	ErrToolFailed = errors.New("symbol tool failed")
)

// Source produces the symbol listing of a binary.
type Source interface {
	// Open starts reading the listing for path. The caller must Close the
	// returned stream; Close reports failures of the producer.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, path string) (io.ReadCloser, error)

// Open calls f(ctx, path).
func (f SourceFunc) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return f(ctx, path)
}

// ToolError describes a symbol dump tool that exited unsuccessfully.
type ToolError struct {
	Tool     string
	Path     string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s -n %s: exit status %d", e.Tool, e.Path, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrToolFailed).
func (e *ToolError) Unwrap() error {
	return ErrToolFailed
}
