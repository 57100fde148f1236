package spool

import (
	"log"
	"sync"
	"time"
)

// DefaultWatchInterval is how often the watcher polls the spooler.
const DefaultWatchInterval = 1 * time.Second

// Watcher is a background task that resumes paused printers. Started once
// at service startup; there is no way back to idle after Stop. Each tick
// lists printers and issues one resume per paused entry. Resume failures
// are logged and never stop the tick or the loop — a printer that pauses
// again is simply retried next tick.
type Watcher struct {
	discovery *Discovery
	spooler   Spooler
	interval  time.Duration
	tick      <-chan time.Time // overrides the ticker when set (tests)

	stopChan chan struct{}
	wg       sync.WaitGroup

	mu             sync.Mutex
	isRunning      bool
	resumesIssued  int64
	resumesFailed  int64
	lastSweepTime  time.Time
	lastSweepCount int
}

// WatcherStats is a snapshot of watcher activity for health reporting.
type WatcherStats struct {
	Running        bool      `json:"running"`
	ResumesIssued  int64     `json:"resumes_issued"`
	ResumesFailed  int64     `json:"resumes_failed"`
	LastSweepTime  time.Time `json:"last_sweep_time,omitempty"`
	LastSweepCount int       `json:"last_sweep_count"`
}

// NewWatcher creates a watcher polling at the given interval.
// A non-positive interval falls back to DefaultWatchInterval.
func NewWatcher(discovery *Discovery, spooler Spooler, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		discovery: discovery,
		spooler:   spooler,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the watcher goroutine. Calling Start on a running watcher
// is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()

	log.Printf("[WATCHER] ✅ Pause watcher started (interval: %v)", w.interval)
}

// Stop terminates the loop and waits for the current tick to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Printf("[WATCHER] 🛑 Pause watcher stopped (resumed: %d, failed: %d)",
		w.resumesIssued, w.resumesFailed)
}

func (w *Watcher) run() {
	defer w.wg.Done()

	tick := w.tick
	if tick == nil {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-w.stopChan:
			return
		case <-tick:
			w.sweep()
		}
	}
}

// sweep is one tick: list, then resume whatever is paused right now.
func (w *Watcher) sweep() {
	printers, err := w.discovery.List()
	if err != nil {
		log.Printf("[WATCHER] ⚠️ Discovery failed, skipping sweep: %v", err)
		return
	}

	resumed := 0
	for _, p := range printers {
		if p.State != StatePaused {
			continue
		}

		res, err := w.spooler.ResumePrinter(p.Name)
		switch {
		case err != nil:
			log.Printf("[WATCHER] ⚠️ Resume of %s failed: %v", p.Name, err)
			w.recordResume(false)
		case res.ExitCode != 0:
			log.Printf("[WATCHER] ⚠️ Resume of %s rejected (exit %d): %s",
				p.Name, res.ExitCode, res.Stderr)
			w.recordResume(false)
		default:
			log.Printf("[WATCHER] ▶️ Resumed paused printer: %s", p.Name)
			w.recordResume(true)
			resumed++
		}
	}

	w.mu.Lock()
	w.lastSweepTime = time.Now()
	w.lastSweepCount = resumed
	w.mu.Unlock()
}

func (w *Watcher) recordResume(ok bool) {
	w.mu.Lock()
	if ok {
		w.resumesIssued++
	} else {
		w.resumesFailed++
	}
	w.mu.Unlock()
}

// Stats returns current watcher statistics.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return WatcherStats{
		Running:        w.isRunning,
		ResumesIssued:  w.resumesIssued,
		ResumesFailed:  w.resumesFailed,
		LastSweepTime:  w.lastSweepTime,
		LastSweepCount: w.lastSweepCount,
	}
}
