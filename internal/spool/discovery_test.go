package spool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   PrinterState
	}{
		{"plain idle", "is idle.  enabled since Mon", StateIdle},
		{"plain paused", "paused", StatePaused},
		{"uppercase paused", "PAUSED by operator", StatePaused},
		{"paused beats idle", "idle but paused", StatePaused},
		{"paused beats processing", "processing, paused by admin", StatePaused},
		{"disabled", "disabled since Tue 10:00", StateDisabled},
		{"disabled beats processing", "processing halted, disabled", StateDisabled},
		{"processing", "now processing job 42", StateProcessing},
		{"no match", "warming up", StateUnknown},
		{"empty status", "", StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.status))
		})
	}
}

func TestListParsesLpstatOutput(t *testing.T) {
	out := "printer Label-A is idle.  enabled since Mon 01 Jan 2024\n" +
		"\tReason: none\n" +
		"printer Label-B disabled since Tue 02 Jan 2024 -\n" +
		"\tPaused\n" +
		"printer Label-C now processing Label-C-17\n"

	fake := &fakeSpooler{listOutputs: listOutput(out)}
	d := NewDiscovery(fake)

	printers, err := d.List()
	require.NoError(t, err)
	require.Len(t, printers, 3)

	assert.Equal(t, Printer{Name: "Label-A", State: StateIdle}, printers[0])
	assert.Equal(t, Printer{Name: "Label-B", State: StateDisabled}, printers[1])
	assert.Equal(t, Printer{Name: "Label-C", State: StateProcessing}, printers[2])
}

func TestListParsesColonSeparatedLines(t *testing.T) {
	fake := &fakeSpooler{listOutputs: listOutput("Label-A: idle\nLabel-B: paused\n")}
	d := NewDiscovery(fake)

	printers, err := d.List()
	require.NoError(t, err)
	require.Len(t, printers, 2)

	assert.Equal(t, Printer{Name: "Label-A", State: StateIdle}, printers[0])
	assert.Equal(t, Printer{Name: "Label-B", State: StatePaused}, printers[1])
}

func TestListMalformedLinesDegradeToUnknown(t *testing.T) {
	out := "Label-A\n" + // name only, no status text
		"\n" +
		"Label-B: something the tool never says\n"

	fake := &fakeSpooler{listOutputs: listOutput(out)}
	d := NewDiscovery(fake)

	printers, err := d.List()
	require.NoError(t, err)
	require.Len(t, printers, 2)

	assert.Equal(t, StateUnknown, printers[0].State)
	assert.Equal(t, StateUnknown, printers[1].State)
}

func TestListIsNeverCached(t *testing.T) {
	fake := &fakeSpooler{listOutputs: []Result{
		{Stdout: "Label-A: paused\n"},
		{Stdout: "Label-A: idle\n"},
	}}
	d := NewDiscovery(fake)

	first, err := d.List()
	require.NoError(t, err)
	second, err := d.List()
	require.NoError(t, err)

	assert.Equal(t, StatePaused, first[0].State)
	assert.Equal(t, StateIdle, second[0].State)
	assert.Equal(t, 2, fake.listCalls)
}

func TestFindFirstUsable(t *testing.T) {
	tests := []struct {
		name     string
		stdout   string
		wantName string
		wantErr  error
	}{
		{
			name:     "first idle wins",
			stdout:   "Label-A: idle\nLabel-B: paused\n",
			wantName: "Label-A",
		},
		{
			name:     "disabled entries are skipped",
			stdout:   "Label-A: disabled since Mon\nLabel-B: idle\n",
			wantName: "Label-B",
		},
		{
			name:     "paused is still usable",
			stdout:   "Label-A: paused\n",
			wantName: "Label-A",
		},
		{
			name:     "unknown is still usable",
			stdout:   "Label-A: warming up\n",
			wantName: "Label-A",
		},
		{
			name:    "all disabled",
			stdout:  "Label-A: disabled\nLabel-B: disabled\n",
			wantErr: ErrNoPrinterAvailable,
		},
		{
			name:    "empty list",
			stdout:  "",
			wantErr: ErrNoPrinterAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSpooler{listOutputs: listOutput(tt.stdout)}
			d := NewDiscovery(fake)

			p, err := d.FindFirstUsable()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name)
			assert.NotEqual(t, StateDisabled, p.State)
		})
	}
}

func TestFindFirstUsablePropagatesListFailure(t *testing.T) {
	execErr := &ExecutionError{Command: "lpstat", Err: errors.New("not found")}
	fake := &fakeSpooler{listErr: execErr}
	d := NewDiscovery(fake)

	_, err := d.FindFirstUsable()
	var got *ExecutionError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "lpstat", got.Command)
}
