package module

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Boundary markers as printed by `nm -n`: address, symbol type, symbol name.
// Some platforms prefix C symbols with an underscore, hence `_?`. The module
// name is everything between `caml` and the suffix, punctuation included.
var (
	beginPattern = regexp.MustCompile(`^([a-f0-9]{16}) ([a-zA-Z]) _?caml(.*)__code_begin$`)
	endPattern   = regexp.MustCompile(`^([a-f0-9]{16}) ([a-zA-Z]) _?caml(.*)__code_end$`)
)

// markerHint is a substring every marker line contains; other lines skip the regexps.
const markerHint = "__code_"

// maxLineSize bounds a single listing line. Mangled names can be long.
const maxLineSize = 1 << 20

// DuplicatePolicy decides what happens when a begin marker repeats a module name.
type DuplicatePolicy int

const (
	// DuplicateOverwrite keeps the last begin marker seen.
	DuplicateOverwrite DuplicatePolicy = iota
	// DuplicateReject fails extraction with ErrDuplicateModule.
	DuplicateReject
)

// Options configures extraction.
type Options struct {
	Duplicates DuplicatePolicy
	// RequireModules makes a listing without any module an error (ErrNoModules).
	RequireModules bool
	Logger         zerolog.Logger
}

// Extract reads a `nm -n` listing and returns the modules it delimits, keyed
// by name. Every end marker must follow the begin marker of the same module
// and every module must be closed by the end of input.
func Extract(r io.Reader, opts Options) (map[string]*Module, error) {
	modules := make(map[string]*Module)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNumber := 0
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		lineNumber++

		if !strings.Contains(line, markerHint) {
			continue
		}

		if matches := beginPattern.FindStringSubmatch(line); matches != nil {
			name := matches[3]
			addr, err := parseAddress(matches[1])
			if err != nil {
				return nil, &MarkerError{Line: lineNumber, Name: name, Err: err}
			}

			if prev, ok := modules[name]; ok {
				if opts.Duplicates == DuplicateReject {
					return nil, &MarkerError{Line: lineNumber, Name: name, Err: ErrDuplicateModule}
				}
				opts.Logger.Warn().
					Str("module", name).
					Int("line", lineNumber).
					Str("previous_start", fmt.Sprintf("%#x", prev.Start)).
					Str("start", fmt.Sprintf("%#x", addr)).
					Msg("Duplicate begin marker, keeping the last one")
			}
			modules[name] = newModule(name, addr)
			continue
		}

		if matches := endPattern.FindStringSubmatch(line); matches != nil {
			name := matches[3]
			addr, err := parseAddress(matches[1])
			if err != nil {
				return nil, &MarkerError{Line: lineNumber, Name: name, Err: err}
			}

			m, ok := modules[name]
			if !ok {
				return nil, &MarkerError{Line: lineNumber, Name: name, Err: ErrUnmatchedEnd}
			}
			if err := m.close(addr); err != nil {
				return nil, &MarkerError{Line: lineNumber, Name: name, Err: err}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read symbol listing: %w", err)
	}

	var open []string
	for name, m := range modules {
		if !m.Closed() {
			open = append(open, name)
		}
	}
	if len(open) > 0 {
		sort.Strings(open)
		return nil, fmt.Errorf("%w: %s", ErrUnterminatedModule, strings.Join(open, ", "))
	}

	return modules, nil
}

func parseAddress(s string) (uint64, error) {
	addr, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return addr, nil
}
