package module

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/coral-mesh/camlsize/internal/errors"
	"github.com/coral-mesh/camlsize/internal/symtab"
)

// Binary holds the modules extracted from one native binary.
// It is immutable once built.
type Binary struct {
	name    string
	modules map[string]*Module
}

// NewBinary wraps an extracted module map. name is used verbatim as a label.
func NewBinary(name string, modules map[string]*Module) *Binary {
	if modules == nil {
		modules = make(map[string]*Module)
	}
	return &Binary{name: name, modules: modules}
}

// Load reads the symbol listing of path from src and extracts its modules.
// The listing is fully drained and the source closed before Load returns.
func Load(ctx context.Context, src symtab.Source, path string, opts Options) (*Binary, error) {
	logger := opts.Logger.With().Str("component", "module").Str("binary", path).Logger()
	opts.Logger = logger

	rc, err := src.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read symbols of %s: %w", path, err)
	}

	modules, err := Extract(rc, opts)
	if err != nil {
		errors.DeferClose(logger, rc, "Failed to close symbol stream")
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := rc.Close(); err != nil {
		return nil, fmt.Errorf("failed to read symbols of %s: %w", path, err)
	}

	b := NewBinary(path, modules)
	if b.Len() == 0 {
		if opts.RequireModules {
			return nil, fmt.Errorf("%s: %w", path, ErrNoModules)
		}
		logger.Warn().Msg("No OCaml modules found; the binary may be stripped or not an OCaml native executable")
	}

	logger.Debug().
		Int("modules", b.Len()).
		Str("code_size", humanize.IBytes(b.TotalCodeBytes())).
		Msg("Extracted modules")

	return b, nil
}

// Name returns the binary's label, the path it was loaded from.
func (b *Binary) Name() string {
	return b.name
}

// Len returns the number of modules.
func (b *Binary) Len() int {
	return len(b.modules)
}

// ModuleNames returns the module names in lexicographic order.
func (b *Binary) ModuleNames() []string {
	names := make([]string, 0, len(b.modules))
	for name := range b.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the binary contains the named module.
func (b *Binary) Has(name string) bool {
	_, ok := b.modules[name]
	return ok
}

// Module returns the named module.
func (b *Binary) Module(name string) (*Module, bool) {
	m, ok := b.modules[name]
	return m, ok
}

// Size returns the size of the named module in kilobytes.
func (b *Binary) Size(name string) (float64, error) {
	m, ok := b.modules[name]
	if !ok {
		return 0, fmt.Errorf("%w %q in %s", ErrUnknownModule, name, b.name)
	}
	return m.Size()
}

// TotalCodeBytes sums the code bytes of all modules.
func (b *Binary) TotalCodeBytes() uint64 {
	var total uint64
	for _, m := range b.modules {
		total += m.Bytes()
	}
	return total
}
