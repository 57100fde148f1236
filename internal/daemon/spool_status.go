package daemon

import (
	"log"

	"github.com/papelito/coloring-daemon/internal/printer"
	"github.com/papelito/coloring-daemon/internal/spool"
)

// SpoolStatus exposes spooler state to the server and health endpoint.
// Every call goes straight to discovery; a printer summary is only as good
// as the moment it was taken.
type SpoolStatus struct {
	discovery *spool.Discovery
}

// NewSpoolStatus wraps a discovery service.
func NewSpoolStatus(discovery *spool.Discovery) *SpoolStatus {
	return &SpoolStatus{discovery: discovery}
}

// Printers returns a fresh discovery snapshot.
func (s *SpoolStatus) Printers() ([]spool.Printer, error) {
	return s.discovery.List()
}

// Summary returns a lightweight summary for health checks
func (s *SpoolStatus) Summary() printer.Summary {
	printers, err := s.discovery.List()
	if err != nil {
		return printer.Summary{Status: "error", DetectedCount: 0}
	}

	summary := printer.Summary{DetectedCount: len(printers)}
	for _, p := range printers {
		switch p.State {
		case spool.StatePaused:
			summary.PausedCount++
			summary.UsableCount++
		case spool.StateDisabled:
			// not usable
		default:
			summary.UsableCount++
		}
		if summary.FirstUsable == "" && p.State != spool.StateDisabled {
			summary.FirstUsable = p.Name
		}
	}

	switch {
	case summary.UsableCount == 0:
		summary.Status = "error"
	case summary.PausedCount > 0:
		summary.Status = "warning"
	default:
		summary.Status = "ok"
	}

	return summary
}

// LogStartupDiagnostics logs printer info at service start
func (s *SpoolStatus) LogStartupDiagnostics() {
	printers, err := s.discovery.List()
	if err != nil {
		log.Printf("[PRINTERS] ⚠️ Error enumerating printers: %v", err)
		return
	}

	log.Println("[PRINTERS] ══════════════════════════════════════════════════")
	log.Printf("[PRINTERS] 🖨️ Detected %d configured printer(s)", len(printers))

	for _, p := range printers {
		mark := ""
		switch p.State {
		case spool.StatePaused:
			mark = " ⏸️"
		case spool.StateDisabled:
			mark = " 🚫"
		}
		log.Printf("[PRINTERS]    • %s (%s)%s", p.Name, p.State, mark)
	}

	if len(printers) == 0 {
		log.Println("[PRINTERS] ⚠️ No printers detected!")
	}
	log.Println("[PRINTERS] ══════════════════════════════════════════════════")
}
