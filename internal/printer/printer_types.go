// Package printer contains shared types to avoid import cycles.
package printer

// Summary provides a lightweight spooler overview for health checks.
type Summary struct {
	Status        string `json:"status"` // "ok", "warning", "error"
	DetectedCount int    `json:"detected_count"`
	UsableCount   int    `json:"usable_count"`
	PausedCount   int    `json:"paused_count"`
	FirstUsable   string `json:"first_usable,omitempty"`
}

// DetailDTO is the JSON response format for printer details.
type DetailDTO struct {
	Name  string `json:"name"`
	State string `json:"state"`
}
