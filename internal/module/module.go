// Package module extracts OCaml compilation units from symbol listings.
//
// The OCaml native compiler brackets the code of every compilation unit with
// a pair of symbols, caml<Name>__code_begin and caml<Name>__code_end. The
// distance between the two addresses is the code size of the unit.
package module

// Module is the code region of one compilation unit.
type Module struct {
	Name  string
	Start uint64
	Stop  uint64

	closed bool
}

func newModule(name string, start uint64) *Module {
	return &Module{Name: name, Start: start}
}

// close records the end marker. A module is closed at most once.
func (m *Module) close(addr uint64) error {
	if m.closed {
		return ErrDuplicateEnd
	}
	m.Stop = addr
	m.closed = true
	return nil
}

// Closed reports whether the end marker has been seen.
func (m *Module) Closed() bool {
	return m.closed
}

// Bytes returns Stop-Start. It is zero when the end lies before the start.
func (m *Module) Bytes() uint64 {
	if !m.closed || m.Stop < m.Start {
		return 0
	}
	return m.Stop - m.Start
}

// Size returns the code size in kilobytes (Stop-Start)/1024.
func (m *Module) Size() (float64, error) {
	if !m.closed {
		return 0, &MarkerError{Name: m.Name, Err: ErrUnterminatedModule}
	}
	if m.Stop < m.Start {
		return -float64(m.Start-m.Stop) / 1024.0, nil
	}
	return float64(m.Stop-m.Start) / 1024.0, nil
}
