package report

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinary maps module names to sizes in kilobytes.
type fakeBinary struct {
	name  string
	sizes map[string]float64
}

func (b *fakeBinary) Name() string { return b.name }

func (b *fakeBinary) ModuleNames() []string {
	names := make([]string, 0, len(b.sizes))
	for name := range b.sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *fakeBinary) Size(name string) (float64, error) {
	size, ok := b.sizes[name]
	if !ok {
		return 0, errors.New("unknown module " + name)
	}
	return size, nil
}

func rowNames(rows []Row) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names
}

func TestNewSingle(t *testing.T) {
	b := &fakeBinary{name: "app.exe", sizes: map[string]float64{
		"Stdlib__List": 12.5,
		"Main":         1.0,
		"Stdlib":       40.25,
	}}

	r, err := NewSingle(b, SortByName)
	require.NoError(t, err)

	assert.Equal(t, "app.exe", r.Binary)
	assert.Equal(t, []string{"Main", "Stdlib", "Stdlib__List"}, rowNames(r.Modules))
	assert.InDelta(t, 53.75, r.Total, 1e-9)

	for i := 1; i < len(r.Modules); i++ {
		assert.Less(t, r.Modules[i-1].Name, r.Modules[i].Name)
	}
}

func TestNewSingle_SortBySize(t *testing.T) {
	b := &fakeBinary{name: "app.exe", sizes: map[string]float64{
		"A": 1.0,
		"B": 5.0,
		"C": 5.0,
		"D": 3.0,
	}}

	r, err := NewSingle(b, SortBySize)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D", "A"}, rowNames(r.Modules))
}

func TestNewComparison(t *testing.T) {
	left := &fakeBinary{name: "a.exe", sizes: map[string]float64{"Alpha": 1.0, "Beta": 2.0}}
	right := &fakeBinary{name: "b.exe", sizes: map[string]float64{"Beta": 2.5, "Gamma": 4.0}}

	c, err := NewComparison(left, right, SortByName)
	require.NoError(t, err)

	assert.Equal(t, "a.exe", c.Left)
	assert.Equal(t, "b.exe", c.Right)
	assert.Equal(t, []SharedRow{{Name: "Beta", Left: 2.0, Right: 2.5}}, c.Shared)
	assert.Equal(t, 2.0, c.SharedLeftTotal)
	assert.Equal(t, 2.5, c.SharedRightTotal)
	assert.Equal(t, []Row{{Name: "Alpha", Size: 1.0}}, c.LeftOnly)
	assert.Equal(t, 1.0, c.LeftOnlyTotal)
	assert.Equal(t, []Row{{Name: "Gamma", Size: 4.0}}, c.RightOnly)
	assert.Equal(t, 4.0, c.RightOnlyTotal)
}

func TestNewComparison_Partition(t *testing.T) {
	left := &fakeBinary{name: "l", sizes: map[string]float64{
		"A": 1, "B": 2, "C": 3, "D": 4, "E": 5,
	}}
	right := &fakeBinary{name: "r", sizes: map[string]float64{
		"C": 1, "D": 1, "E": 1, "F": 1, "G": 1, "H": 1,
	}}

	c, err := NewComparison(left, right, SortByName)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, row := range c.Shared {
		seen[row.Name]++
	}
	for _, row := range c.LeftOnly {
		seen[row.Name]++
	}
	for _, row := range c.RightOnly {
		seen[row.Name]++
	}

	union := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	assert.Len(t, seen, len(union))
	for _, name := range union {
		assert.Equal(t, 1, seen[name], "module %s", name)
	}

	var leftSum float64
	for _, row := range c.LeftOnly {
		leftSum += row.Size
	}
	assert.Equal(t, leftSum, c.LeftOnlyTotal)
	assert.Equal(t, 12.0, c.SharedLeftTotal)
	assert.Equal(t, 3.0, c.SharedRightTotal)
}

func TestNewComparison_Identical(t *testing.T) {
	b := &fakeBinary{name: "app.exe", sizes: map[string]float64{"A": 1, "B": 2}}

	c, err := NewComparison(b, b, SortByName)
	require.NoError(t, err)
	assert.Len(t, c.Shared, 2)
	assert.Empty(t, c.LeftOnly)
	assert.Empty(t, c.RightOnly)
	assert.Zero(t, c.LeftOnlyTotal)
	assert.Zero(t, c.RightOnlyTotal)
}

func TestNewComparison_SortBySize(t *testing.T) {
	left := &fakeBinary{name: "l", sizes: map[string]float64{"A": 1, "B": 9, "C": 4}}
	right := &fakeBinary{name: "r", sizes: map[string]float64{"A": 1, "B": 1, "C": 1}}

	c, err := NewComparison(left, right, SortBySize)
	require.NoError(t, err)
	require.Len(t, c.Shared, 3)
	assert.Equal(t, "B", c.Shared[0].Name)
	assert.Equal(t, "C", c.Shared[1].Name)
	assert.Equal(t, "A", c.Shared[2].Name)
}

// brokenBinary lists a module it cannot size.
type brokenBinary struct{ fakeBinary }

func (b *brokenBinary) ModuleNames() []string { return []string{"Ghost"} }

func TestNewReports_SizeError(t *testing.T) {
	broken := &brokenBinary{fakeBinary{name: "broken.exe"}}
	ok := &fakeBinary{name: "ok.exe", sizes: map[string]float64{"Ghost": 1}}

	_, err := NewSingle(broken, SortByName)
	assert.Error(t, err)

	_, err = NewComparison(broken, ok, SortByName)
	assert.Error(t, err)

	_, err = NewComparison(ok, &brokenBinary{fakeBinary{name: "other.exe"}}, SortByName)
	assert.Error(t, err)
}

func TestFormatAndSortOrderValues(t *testing.T) {
	var f Format
	require.NoError(t, f.Set("JSON"))
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "json", f.String())
	assert.Equal(t, "format", f.Type())

	err := f.Set("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text, json, yaml, csv")

	var o SortOrder
	require.NoError(t, o.Set("size"))
	assert.Equal(t, SortBySize, o)
	assert.Equal(t, "order", o.Type())
	assert.Error(t, o.Set("random"))
}
