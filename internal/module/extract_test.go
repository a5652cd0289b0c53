package module

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/camlsize/internal/testutil"
)

func extract(t *testing.T, listing string, opts Options) map[string]*Module {
	t.Helper()
	modules, err := Extract(strings.NewReader(listing), opts)
	require.NoError(t, err)
	return modules
}

func TestExtract_ModuleSize(t *testing.T) {
	listing := `0000000000000f00 T caml_program
0000000000001000 T camlFoo__code_begin
0000000000001010 T camlFoo__entry
0000000000001400 T camlFoo__code_end
`
	modules := extract(t, listing, Options{Logger: zerolog.Nop()})
	require.Len(t, modules, 1)

	foo := modules["Foo"]
	require.NotNil(t, foo)
	assert.Equal(t, uint64(0x1000), foo.Start)
	assert.Equal(t, uint64(0x1400), foo.Stop)
	assert.True(t, foo.Closed())

	size, err := foo.Size()
	require.NoError(t, err)
	assert.Equal(t, 1.0, size)
	assert.Equal(t, uint64(0x400), foo.Bytes())
}

func TestExtract_ModuleNames(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		wantName string
	}{
		{name: "plain", symbol: "camlStdlib", wantName: "Stdlib"},
		{name: "leading underscore", symbol: "_camlStdlib", wantName: "Stdlib"},
		{name: "packed module", symbol: "camlStdlib__List", wantName: "Stdlib__List"},
		{name: "dune wrapped", symbol: "camlDune__exe__Main", wantName: "Dune__exe__Main"},
		{name: "punctuation", symbol: "camlFoo$Bar.baz", wantName: "Foo$Bar.baz"},
		{name: "startup unit", symbol: "caml_startup", wantName: "_startup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := "0000000000002000 T " + tt.symbol + "__code_begin\n" +
				"0000000000002800 T " + tt.symbol + "__code_end\n"
			modules := extract(t, listing, Options{Logger: zerolog.Nop()})
			require.Len(t, modules, 1)
			m, ok := modules[tt.wantName]
			require.True(t, ok, "module %q not found in %v", tt.wantName, modules)
			assert.Equal(t, tt.wantName, m.Name)
		})
	}
}

func TestExtract_IgnoresOtherLines(t *testing.T) {
	listing := strings.Join([]string{
		"                 U malloc",
		"0000000000001000 T camlA__code_begin",
		"00001000 T camlShort__code_begin", // 8-digit address
		"0000000000001000 TT camlB__code_begin",
		"0000000000001000 T camlC__code_begin_extra",
		"0000000000001000 T xcamlD__code_end_x",
		"0000000000001800 t camlA__code_end",
		"",
	}, "\n")

	modules := extract(t, listing, Options{Logger: zerolog.Nop()})
	require.Len(t, modules, 1)
	assert.Contains(t, modules, "A")
}

func TestExtract_CRLF(t *testing.T) {
	listing := "0000000000001000 T camlA__code_begin\r\n0000000000001400 T camlA__code_end\r\n"
	modules := extract(t, listing, Options{Logger: zerolog.Nop()})
	require.Contains(t, modules, "A")
}

func TestExtract_UnmatchedEnd(t *testing.T) {
	listing := `0000000000001000 T camlA__code_begin
0000000000001400 T camlB__code_end
0000000000001800 T camlA__code_end
`
	_, err := Extract(strings.NewReader(listing), Options{Logger: zerolog.Nop()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnmatchedEnd)

	var markerErr *MarkerError
	require.ErrorAs(t, err, &markerErr)
	assert.Equal(t, 2, markerErr.Line)
	assert.Equal(t, "B", markerErr.Name)
	assert.Equal(t, "line 2: module B: unmatched end marker", err.Error())
}

func TestExtract_EndBeforeBegin(t *testing.T) {
	listing := `0000000000001400 T camlA__code_end
0000000000001000 T camlA__code_begin
`
	_, err := Extract(strings.NewReader(listing), Options{Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, ErrUnmatchedEnd)
}

func TestExtract_Unterminated(t *testing.T) {
	listing := `0000000000001000 T camlB__code_begin
0000000000001100 T camlA__code_begin
0000000000001400 T camlC__code_begin
0000000000001800 T camlC__code_end
`
	_, err := Extract(strings.NewReader(listing), Options{Logger: zerolog.Nop()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedModule)
	assert.Equal(t, "module never closed: A, B", err.Error())
}

func TestExtract_DuplicateEnd(t *testing.T) {
	listing := `0000000000001000 T camlA__code_begin
0000000000001400 T camlA__code_end
0000000000001800 T camlA__code_end
`
	_, err := Extract(strings.NewReader(listing), Options{Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, ErrDuplicateEnd)
}

func TestExtract_DuplicateBegin(t *testing.T) {
	listing := `0000000000001000 T camlA__code_begin
0000000000002000 T camlA__code_begin
0000000000002800 T camlA__code_end
`

	t.Run("overwrite keeps last", func(t *testing.T) {
		logger, logs := testutil.NewBufferLogger(zerolog.WarnLevel)
		modules := extract(t, listing, Options{Logger: logger})
		require.Contains(t, modules, "A")
		assert.Equal(t, uint64(0x2000), modules["A"].Start)

		size, err := modules["A"].Size()
		require.NoError(t, err)
		assert.Equal(t, 2.0, size)
		assert.Contains(t, logs.String(), "Duplicate begin marker")
	})

	t.Run("reject", func(t *testing.T) {
		_, err := Extract(strings.NewReader(listing), Options{
			Duplicates: DuplicateReject,
			Logger:     zerolog.Nop(),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateModule)

		var markerErr *MarkerError
		require.ErrorAs(t, err, &markerErr)
		assert.Equal(t, 2, markerErr.Line)
	})
}

func TestExtract_Empty(t *testing.T) {
	modules := extract(t, "", Options{Logger: zerolog.Nop()})
	assert.Empty(t, modules)
}

func TestExtract_LongLine(t *testing.T) {
	name := strings.Repeat("X", 200*1024)
	listing := "0000000000001000 T caml" + name + "__code_begin\n" +
		"0000000000001400 T caml" + name + "__code_end\n"
	modules := extract(t, listing, Options{Logger: zerolog.Nop()})
	assert.Contains(t, modules, name)
}

func TestModule_Size(t *testing.T) {
	m := newModule("A", 0x2000)
	_, err := m.Size()
	assert.ErrorIs(t, err, ErrUnterminatedModule)
	assert.Equal(t, uint64(0), m.Bytes())

	require.NoError(t, m.close(0x1c00))
	size, err := m.Size()
	require.NoError(t, err)
	assert.Equal(t, -1.0, size)
	assert.Equal(t, uint64(0), m.Bytes())

	assert.ErrorIs(t, m.close(0x3000), ErrDuplicateEnd)
	assert.Equal(t, uint64(0x1c00), m.Stop)
}

func TestModule_SizeHighAddresses(t *testing.T) {
	m := newModule("A", 0xffffffffffff0000)
	require.NoError(t, m.close(0xffffffffffff0800))
	size, err := m.Size()
	require.NoError(t, err)
	assert.Equal(t, 2.0, size)
}
