// Package spool manages print jobs against the host print spooler through
// its command-line tools: discovering printers, submitting rendered pages,
// and unsticking paused queues.
package spool

import (
	"bytes"
	"errors"
	"os/exec"
)

// Result captures what a spooler command produced.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner launches an external command and waits for it to terminate.
// Exit codes are reported, never interpreted — that is the caller's job.
// There is no timeout: a hung spooler binary blocks its caller.
type Runner interface {
	Run(name string, args ...string) (Result, error)
}

type execRunner struct{}

// NewRunner returns a Runner backed by os/exec.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(name string, args ...string) (Result, error) {
	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Ran to completion with a nonzero exit.
			return Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		}
		return Result{}, &ExecutionError{Command: name, Err: err}
	}

	return Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// Commands holds the spooler tool names for the three command shapes.
type Commands struct {
	List   string // enumerate destinations, one per line
	Submit string // send a file to a destination
	Resume string // release a paused destination
}

// DefaultCommands returns the CUPS command-line tools.
func DefaultCommands() Commands {
	return Commands{
		List:   "lpstat",
		Submit: "lp",
		Resume: "cupsenable",
	}
}

// Spooler is the narrow boundary with the host print queue: one method per
// command shape, so tests can script outputs without spawning processes.
type Spooler interface {
	ListPrinters() (Result, error)
	SubmitJob(printer, path string, args []string) (Result, error)
	ResumePrinter(name string) (Result, error)
}

type cliSpooler struct {
	runner Runner
	cmds   Commands
}

// NewCLISpooler builds a Spooler over the given runner and tool names.
// Zero-value command names fall back to the CUPS defaults.
func NewCLISpooler(runner Runner, cmds Commands) Spooler {
	def := DefaultCommands()
	if cmds.List == "" {
		cmds.List = def.List
	}
	if cmds.Submit == "" {
		cmds.Submit = def.Submit
	}
	if cmds.Resume == "" {
		cmds.Resume = def.Resume
	}
	return &cliSpooler{runner: runner, cmds: cmds}
}

func (s *cliSpooler) ListPrinters() (Result, error) {
	return s.runner.Run(s.cmds.List, "-p")
}

func (s *cliSpooler) SubmitJob(printer, path string, args []string) (Result, error) {
	argv := make([]string, 0, len(args)+4)
	argv = append(argv, "-d", printer)
	argv = append(argv, args...)
	argv = append(argv, "--", path)
	return s.runner.Run(s.cmds.Submit, argv...)
}

func (s *cliSpooler) ResumePrinter(name string) (Result, error) {
	return s.runner.Run(s.cmds.Resume, name)
}
