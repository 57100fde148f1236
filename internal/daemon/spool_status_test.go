package daemon

import (
	"errors"
	"testing"

	"github.com/papelito/coloring-daemon/internal/spool"
)

// scriptedSpooler feeds canned lpstat output into discovery.
type scriptedSpooler struct {
	stdout string
	err    error
}

func (s *scriptedSpooler) ListPrinters() (spool.Result, error) {
	if s.err != nil {
		return spool.Result{}, s.err
	}
	return spool.Result{Stdout: s.stdout}, nil
}

func (s *scriptedSpooler) SubmitJob(_, _ string, _ []string) (spool.Result, error) {
	return spool.Result{}, nil
}

func (s *scriptedSpooler) ResumePrinter(_ string) (spool.Result, error) {
	return spool.Result{}, nil
}

func TestSpoolStatusSummary(t *testing.T) {
	tests := []struct {
		name       string
		stdout     string
		wantStatus string
		wantUsable int
		wantPaused int
		wantFirst  string
		wantTotal  int
	}{
		{
			name:       "all idle",
			stdout:     "Label-A: idle\nLabel-B: idle\n",
			wantStatus: "ok",
			wantUsable: 2,
			wantFirst:  "Label-A",
			wantTotal:  2,
		},
		{
			name:       "paused printer degrades to warning",
			stdout:     "Label-A: idle\nLabel-B: paused\n",
			wantStatus: "warning",
			wantUsable: 2,
			wantPaused: 1,
			wantFirst:  "Label-A",
			wantTotal:  2,
		},
		{
			name:       "disabled entries are not usable",
			stdout:     "Label-A: disabled\nLabel-B: idle\n",
			wantStatus: "ok",
			wantUsable: 1,
			wantFirst:  "Label-B",
			wantTotal:  2,
		},
		{
			name:       "nothing usable",
			stdout:     "Label-A: disabled\n",
			wantStatus: "error",
			wantTotal:  1,
		},
		{
			name:       "empty list",
			stdout:     "",
			wantStatus: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := NewSpoolStatus(spool.NewDiscovery(&scriptedSpooler{stdout: tt.stdout}))

			got := status.Summary()
			if got.Status != tt.wantStatus {
				t.Errorf("Summary().Status = %q; want %q", got.Status, tt.wantStatus)
			}
			if got.UsableCount != tt.wantUsable {
				t.Errorf("Summary().UsableCount = %d; want %d", got.UsableCount, tt.wantUsable)
			}
			if got.PausedCount != tt.wantPaused {
				t.Errorf("Summary().PausedCount = %d; want %d", got.PausedCount, tt.wantPaused)
			}
			if got.FirstUsable != tt.wantFirst {
				t.Errorf("Summary().FirstUsable = %q; want %q", got.FirstUsable, tt.wantFirst)
			}
			if got.DetectedCount != tt.wantTotal {
				t.Errorf("Summary().DetectedCount = %d; want %d", got.DetectedCount, tt.wantTotal)
			}
		})
	}
}

func TestSpoolStatusSummaryDiscoveryFailure(t *testing.T) {
	status := NewSpoolStatus(spool.NewDiscovery(&scriptedSpooler{
		err: &spool.ExecutionError{Command: "lpstat", Err: errors.New("not found")},
	}))

	got := status.Summary()
	if got.Status != "error" {
		t.Errorf("Summary().Status = %q; want error", got.Status)
	}
}
