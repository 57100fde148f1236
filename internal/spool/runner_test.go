package spool

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerMissingBinaryIsExecutionError(t *testing.T) {
	r := NewRunner()

	_, err := r.Run("definitely-not-a-spooler-binary-2a7f")

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "definitely-not-a-spooler-binary-2a7f", execErr.Command)
}

func TestRunnerCapturesExitCodeAndOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	r := NewRunner()

	res, err := r.Run("sh", "-c", "echo accepted; echo rejected >&2; exit 3")
	require.NoError(t, err, "a nonzero exit is a Result, not an error")

	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "accepted\n", res.Stdout)
	assert.Equal(t, "rejected\n", res.Stderr)
}

func TestCLISpoolerCommandShapes(t *testing.T) {
	rec := &recordingRunner{}
	s := NewCLISpooler(rec, Commands{})

	_, _ = s.ListPrinters()
	_, _ = s.SubmitJob("Label-A", "/tmp/page.png", []string{"-n", "2"})
	_, _ = s.ResumePrinter("Label-A")

	require.Len(t, rec.calls, 3)
	assert.Equal(t, []string{"lpstat", "-p"}, rec.calls[0])
	assert.Equal(t, []string{"lp", "-d", "Label-A", "-n", "2", "--", "/tmp/page.png"}, rec.calls[1])
	assert.Equal(t, []string{"cupsenable", "Label-A"}, rec.calls[2])
}

type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(name string, args ...string) (Result, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return Result{}, nil
}
