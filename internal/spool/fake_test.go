package spool

import (
	"sync"
)

// fakeSpooler scripts spooler outputs and records calls, so tests never
// spawn real processes.
type fakeSpooler struct {
	mu sync.Mutex

	// successive List outputs; the last one repeats once exhausted
	listOutputs []Result
	listErr     error
	listCalls   int

	submitResult Result
	submitErr    error
	submitCalls  []submitCall

	resumeResults map[string]Result
	resumeErrs    map[string]error
	resumeCalls   []string
}

type submitCall struct {
	printer string
	path    string
	args    []string
}

func (f *fakeSpooler) ListPrinters() (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return Result{}, f.listErr
	}
	if len(f.listOutputs) == 0 {
		return Result{}, nil
	}
	idx := f.listCalls - 1
	if idx >= len(f.listOutputs) {
		idx = len(f.listOutputs) - 1
	}
	return f.listOutputs[idx], nil
}

func (f *fakeSpooler) SubmitJob(printer, path string, args []string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submitCalls = append(f.submitCalls, submitCall{printer: printer, path: path, args: args})
	if f.submitErr != nil {
		return Result{}, f.submitErr
	}
	return f.submitResult, nil
}

func (f *fakeSpooler) ResumePrinter(name string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resumeCalls = append(f.resumeCalls, name)
	if err, ok := f.resumeErrs[name]; ok && err != nil {
		return Result{}, err
	}
	if res, ok := f.resumeResults[name]; ok {
		return res, nil
	}
	return Result{}, nil
}

func (f *fakeSpooler) resumed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.resumeCalls))
	copy(out, f.resumeCalls)
	return out
}

func (f *fakeSpooler) submitted() []submitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]submitCall, len(f.submitCalls))
	copy(out, f.submitCalls)
	return out
}

func listOutput(stdout string) []Result {
	return []Result{{ExitCode: 0, Stdout: stdout}}
}
