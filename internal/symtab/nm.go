package symtab

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/camlsize/internal/constants"
)

// DefaultTool is the symbol dump tool used when none is configured.
const DefaultTool = constants.DefaultTool

// maxStderr bounds how much of the tool's stderr is kept for error messages.
const maxStderr = 4 << 10

// NMSource reads symbol listings by running `<Tool> -n <path>`.
type NMSource struct {
	Tool   string
	Logger zerolog.Logger
}

// NewNMSource creates a source running tool, or DefaultTool when tool is empty.
func NewNMSource(tool string, logger zerolog.Logger) *NMSource {
	if tool == "" {
		tool = DefaultTool
	}
	return &NMSource{
		Tool:   tool,
		Logger: logger.With().Str("component", "symtab").Logger(),
	}
}

// Open starts the tool and returns its standard output.
// The exit status is checked by Close.
func (s *NMSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	tool := s.Tool
	if tool == "" {
		tool = DefaultTool
	}

	bin, err := exec.LookPath(tool)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}

	cmd := exec.CommandContext(ctx, bin, "-n", path)
	stderr := &limitedBuffer{max: maxStderr}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", tool, err)
	}

	s.Logger.Debug().
		Str("tool", bin).
		Str("path", path).
		Int("pid", cmd.Process.Pid).
		Msg("Started symbol dump")

	return &toolStream{
		stdout: stdout,
		cmd:    cmd,
		tool:   tool,
		path:   path,
		stderr: stderr,
	}, nil
}

// toolStream is the stdout of a running tool. Close waits for the process.
type toolStream struct {
	stdout io.ReadCloser
	cmd    *exec.Cmd
	tool   string
	path   string
	stderr *limitedBuffer
	closed bool
}

func (t *toolStream) Read(p []byte) (int, error) {
	return t.stdout.Read(p)
}

func (t *toolStream) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	// Wait closes the pipe, so unread output has to be drained first or the
	// tool may block on a full pipe and never exit.
	_, _ = io.Copy(io.Discard, t.stdout)

	err := t.cmd.Wait()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ToolError{
			Tool:     t.tool,
			Path:     t.path,
			ExitCode: exitErr.ExitCode(),
			Stderr:   t.stderr.String(),
		}
	}
	return fmt.Errorf("failed to wait for %s: %w", t.tool, err)
}

// limitedBuffer keeps the first max bytes written and drops the rest.
type limitedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
