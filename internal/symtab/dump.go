package symtab

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DumpSource reads listings that were saved earlier with `nm -n <binary> > file`.
// The path given to Open names the saved listing, not the binary.
type DumpSource struct{}

// Open opens the saved listing at path.
func (DumpSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol dump: %w", err)
	}
	return f, nil
}
