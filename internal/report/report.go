// Package report builds per-module size reports for one binary or compares
// two binaries, and renders them in several output formats.
package report

import (
	"fmt"
	"sort"
)

// Binary is the view of an analysed binary the reports need.
type Binary interface {
	Name() string
	// ModuleNames returns the module names in lexicographic order.
	ModuleNames() []string
	// Size returns the size of a module in kilobytes.
	Size(name string) (float64, error)
}

// Row is one module with its size in kilobytes.
type Row struct {
	Name string  `json:"name" yaml:"name"`
	Size float64 `json:"size_kb" yaml:"size_kb"`
}

// SharedRow is a module present in both compared binaries.
type SharedRow struct {
	Name  string  `json:"name" yaml:"name"`
	Left  float64 `json:"left_kb" yaml:"left_kb"`
	Right float64 `json:"right_kb" yaml:"right_kb"`
}

// Single lists the modules of one binary.
type Single struct {
	Binary  string  `json:"binary" yaml:"binary"`
	Modules []Row   `json:"modules" yaml:"modules"`
	Total   float64 `json:"total_kb" yaml:"total_kb"`
}

// Comparison partitions the modules of two binaries into those found in
// both, only in the left one and only in the right one.
type Comparison struct {
	Left  string `json:"left" yaml:"left"`
	Right string `json:"right" yaml:"right"`

	Shared           []SharedRow `json:"shared" yaml:"shared"`
	SharedLeftTotal  float64     `json:"shared_left_total_kb" yaml:"shared_left_total_kb"`
	SharedRightTotal float64     `json:"shared_right_total_kb" yaml:"shared_right_total_kb"`

	LeftOnly      []Row   `json:"left_only" yaml:"left_only"`
	LeftOnlyTotal float64 `json:"left_only_total_kb" yaml:"left_only_total_kb"`

	RightOnly      []Row   `json:"right_only" yaml:"right_only"`
	RightOnlyTotal float64 `json:"right_only_total_kb" yaml:"right_only_total_kb"`
}

// NewSingle builds the module listing of b.
func NewSingle(b Binary, order SortOrder) (*Single, error) {
	rows, total, err := sizedRows(b, b.ModuleNames())
	if err != nil {
		return nil, err
	}
	sortRows(rows, order)

	return &Single{
		Binary:  b.Name(),
		Modules: rows,
		Total:   total,
	}, nil
}

// NewComparison compares the modules of left and right.
// Every module name of either binary lands in exactly one group.
func NewComparison(left, right Binary, order SortOrder) (*Comparison, error) {
	leftNames := left.ModuleNames()
	rightNames := right.ModuleNames()
	inLeft := toSet(leftNames)
	inRight := toSet(rightNames)

	var shared, leftOnly, rightOnly []string
	for _, name := range leftNames {
		if inRight[name] {
			shared = append(shared, name)
		} else {
			leftOnly = append(leftOnly, name)
		}
	}
	for _, name := range rightNames {
		if !inLeft[name] {
			rightOnly = append(rightOnly, name)
		}
	}

	c := &Comparison{
		Left:   left.Name(),
		Right:  right.Name(),
		Shared: make([]SharedRow, 0, len(shared)),
	}

	for _, name := range shared {
		l, err := left.Size(name)
		if err != nil {
			return nil, err
		}
		r, err := right.Size(name)
		if err != nil {
			return nil, err
		}
		c.Shared = append(c.Shared, SharedRow{Name: name, Left: l, Right: r})
		c.SharedLeftTotal += l
		c.SharedRightTotal += r
	}
	sortSharedRows(c.Shared, order)

	var err error
	if c.LeftOnly, c.LeftOnlyTotal, err = sizedRows(left, leftOnly); err != nil {
		return nil, err
	}
	sortRows(c.LeftOnly, order)

	if c.RightOnly, c.RightOnlyTotal, err = sizedRows(right, rightOnly); err != nil {
		return nil, err
	}
	sortRows(c.RightOnly, order)

	return c, nil
}

func sizedRows(b Binary, names []string) ([]Row, float64, error) {
	rows := make([]Row, 0, len(names))
	var total float64
	for _, name := range names {
		size, err := b.Size(name)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", b.Name(), err)
		}
		rows = append(rows, Row{Name: name, Size: size})
		total += size
	}
	return rows, total, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// sortRows orders rows by name, or by size descending with ties by name.
func sortRows(rows []Row, order SortOrder) {
	sort.SliceStable(rows, func(i, j int) bool {
		if order == SortBySize && rows[i].Size != rows[j].Size {
			return rows[i].Size > rows[j].Size
		}
		return rows[i].Name < rows[j].Name
	})
}

// sortSharedRows orders by name, or by the left size descending.
func sortSharedRows(rows []SharedRow, order SortOrder) {
	sort.SliceStable(rows, func(i, j int) bool {
		if order == SortBySize && rows[i].Left != rows[j].Left {
			return rows[i].Left > rows[j].Left
		}
		return rows[i].Name < rows[j].Name
	})
}
