// Package workererrors maps spool failures to short client-facing messages.
package workererrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papelito/coloring-daemon/internal/spool"
)

// ExtractUserFriendlyError creates a clean error message for the client.
// The detailed error stays in the log; the client gets a category prefix
// and the shortest useful detail.
func ExtractUserFriendlyError(err error) string {
	if errors.Is(err, spool.ErrNoPrinterAvailable) {
		return "PRINTER: No usable printer found - check that one is connected and enabled"
	}

	var subErr *spool.SubmissionError
	if errors.As(err, &subErr) {
		detail := strings.TrimSpace(subErr.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(subErr.Stdout)
		}
		if detail == "" {
			return fmt.Sprintf("SPOOLER: Job rejected by printer '%s' (exit %d)", subErr.Printer, subErr.ExitCode)
		}
		return fmt.Sprintf("SPOOLER: Job rejected by printer '%s': %s", subErr.Printer, lastSegment(detail))
	}

	var execErr *spool.ExecutionError
	if errors.As(err, &execErr) {
		return fmt.Sprintf("SPOOLER: Command '%s' is not available - is the print system installed?", execErr.Command)
	}

	var scratchErr *spool.ScratchError
	if errors.As(err, &scratchErr) {
		return "STORAGE: Could not stage the image for printing - check disk space"
	}

	// Fallback: return cleaned error
	return fmt.Sprintf("ERROR: %s", lastSegment(err.Error()))
}

// lastSegment gets the innermost error message from a wrapped chain.
func lastSegment(errStr string) string {
	parts := strings.Split(errStr, ": ")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return errStr
}
