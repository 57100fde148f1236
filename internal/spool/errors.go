package spool

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPrinterAvailable is returned when the spooler reports no printers,
// or every reported printer is disabled.
var ErrNoPrinterAvailable = errors.New("no usable printer available")

// ExecutionError means a spooler command could not be launched at all
// (binary missing, permission denied). Exit codes are not part of this;
// a command that ran and failed reports through its Result.
type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("spooler command %q failed to launch: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// SubmissionError means the submit command ran and the spooler rejected the
// job (nonzero exit). Captured output is kept for diagnostics.
type SubmissionError struct {
	Printer  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *SubmissionError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(e.Stdout)
	}
	if detail == "" {
		return fmt.Sprintf("spooler rejected job for printer %q (exit %d)", e.Printer, e.ExitCode)
	}
	return fmt.Sprintf("spooler rejected job for printer %q (exit %d): %s", e.Printer, e.ExitCode, detail)
}

// ScratchError wraps a failure to write or remove a scratch file.
type ScratchError struct {
	Op   string // "write" or "remove"
	Path string
	Err  error
}

func (e *ScratchError) Error() string {
	return fmt.Sprintf("scratch file %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *ScratchError) Unwrap() error { return e.Err }
