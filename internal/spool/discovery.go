package spool

import (
	"strings"
	"unicode"
)

// PrinterState is the spooler-reported condition of a queue.
type PrinterState string

const (
	StateIdle       PrinterState = "idle"
	StateProcessing PrinterState = "processing"
	StatePaused     PrinterState = "paused"
	StateDisabled   PrinterState = "disabled"
	StateUnknown    PrinterState = "unknown"
)

func (s PrinterState) String() string { return string(s) }

// Printer is one discovery snapshot entry. Snapshots are disposable values:
// the state may be stale the moment List returns.
type Printer struct {
	Name  string
	State PrinterState
}

// Discovery enumerates configured printers through the spooler CLI.
// Every call hits the spooler; nothing is cached, so the watcher observes
// live paused/resumed transitions.
type Discovery struct {
	spooler Spooler
}

// NewDiscovery creates a discovery service over the given spooler.
func NewDiscovery(spooler Spooler) *Discovery {
	return &Discovery{spooler: spooler}
}

// List returns a fresh snapshot, one Printer per parsable output line.
// Lines that cannot be classified degrade to StateUnknown; discovery never
// aborts on malformed output.
func (d *Discovery) List() ([]Printer, error) {
	res, err := d.spooler.ListPrinters()
	if err != nil {
		return nil, err
	}
	return parsePrinters(res.Stdout), nil
}

// FindFirstUsable returns the first listed printer that is not disabled,
// in spooler order. Returns ErrNoPrinterAvailable when the list is empty
// or every entry is disabled.
func (d *Discovery) FindFirstUsable() (Printer, error) {
	printers, err := d.List()
	if err != nil {
		return Printer{}, err
	}
	for _, p := range printers {
		if p.State != StateDisabled {
			return p, nil
		}
	}
	return Printer{}, ErrNoPrinterAvailable
}

// parsePrinters handles lpstat-style output ("printer Foo is idle. ...")
// as well as bare "Foo: idle" lines. Indented lines are continuations of
// the previous destination and are skipped.
func parsePrinters(out string) []Printer {
	var printers []Printer
	for _, line := range strings.Split(out, "\n") {
		if line == "" || unicode.IsSpace(rune(line[0])) {
			continue
		}
		p, ok := parsePrinterLine(line)
		if !ok {
			continue
		}
		printers = append(printers, p)
	}
	return printers
}

func parsePrinterLine(line string) (Printer, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "printer ")

	name, status, _ := strings.Cut(line, " ")
	name = strings.TrimSuffix(name, ":")
	if name == "" {
		return Printer{}, false
	}

	return Printer{Name: name, State: ClassifyStatus(status)}, true
}

// classification substrings, scanned in priority order; first match wins.
var stateMatchers = []struct {
	substr string
	state  PrinterState
}{
	{"paused", StatePaused},
	{"disabled", StateDisabled},
	{"processing", StateProcessing},
	{"idle", StateIdle},
}

// ClassifyStatus maps a free-text status phrase to a PrinterState.
// The scan is case-insensitive and "paused" outranks everything else,
// so "idle but paused" still classifies as paused. No match means
// StateUnknown, never an error.
func ClassifyStatus(status string) PrinterState {
	status = strings.ToLower(status)
	for _, m := range stateMatchers {
		if strings.Contains(status, m.substr) {
			return m.state
		}
	}
	return StateUnknown
}
