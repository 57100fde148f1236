package daemon

import (
	"github.com/papelito/coloring-daemon/internal/printer"
	"github.com/papelito/coloring-daemon/internal/spool"
)

// HealthResponse is the state of the print service for monitoring tools.
type HealthResponse struct {
	Status   string             `json:"status"`
	Queue    QueueStatus        `json:"queue"`
	Worker   WorkerStatus       `json:"worker"`
	Watcher  spool.WatcherStats `json:"watcher"`
	Printers printer.Summary    `json:"printers"`
	Build    BuildInfo          `json:"build"`
	Uptime   int                `json:"uptime_seconds"`
}

// QueueStatus is the state of the print queue.
type QueueStatus struct {
	Current     int     `json:"current"`
	Capacity    int     `json:"capacity"`
	Utilization float64 `json:"utilization"`
}

// WorkerStatus is the state of the print worker.
type WorkerStatus struct {
	Running       bool  `json:"running"`
	JobsProcessed int64 `json:"jobs_processed"`
	JobsFailed    int64 `json:"jobs_failed"`
}

// BuildInfo holds compile-time build information.
type BuildInfo struct {
	Env  string `json:"env"`
	Date string `json:"date"`
	Time string `json:"time"`
}
