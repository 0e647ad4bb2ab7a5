package installer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

// ErrNotBootstrapped reports a prefix whose bootstrap markers are missing.
var ErrNotBootstrapped = errors.New(messages.InstallerNotBootstrapped)

// CommandError is a failed external process, carrying its captured output.
type CommandError struct {
	Op      string
	Command string
	// ExitCode is -1 when the process did not report one (for example, it never started).
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf(messages.InstallerCommandRunFmt, e.Op, e.Err)
	}
	return fmt.Sprintf(messages.InstallerCommandFailedFmt, e.Op, e.ExitCode, strings.TrimSpace(e.Output))
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

type exitCoder interface {
	ExitCode() int
}

func newCommandError(op string, command string, output []byte, err error) *CommandError {
	code := -1
	var ec exitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	return &CommandError{
		Op:       op,
		Command:  command,
		ExitCode: code,
		Output:   string(output),
		Err:      err,
	}
}
