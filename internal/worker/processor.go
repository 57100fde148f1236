// Package worker contains the print job processor.
package worker

import (
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/papelito/coloring-daemon/internal/server"
	"github.com/papelito/coloring-daemon/internal/spool"
	workererrors "github.com/papelito/coloring-daemon/internal/worker/errors"
)

// ClientNotifier interface for sending results back to clients
type ClientNotifier interface {
	NotifyClient(conn *websocket.Conn, response server.Response) error
}

// JobSubmitter is the spool surface the worker drives. Submit blocks until
// the spooler command exits.
type JobSubmitter interface {
	Submit(data []byte, opts spool.Options) (spool.JobResult, error)
}

// Worker consumes print jobs from the queue and hands them to the spooler
type Worker struct {
	jobQueue      <-chan *server.PrintJob
	notifier      ClientNotifier
	submitter     JobSubmitter
	stopChan      chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	isRunning     bool
	jobsProcessed int64
	jobsFailed    int64
	lastJobTime   time.Time
}

// NewWorker creates a new print worker
func NewWorker(jobQueue <-chan *server.PrintJob, notifier ClientNotifier, submitter JobSubmitter) *Worker {
	return &Worker{
		jobQueue:  jobQueue,
		notifier:  notifier,
		submitter: submitter,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the worker goroutine
func (w *Worker) Start() {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()

	log.Println("[WORKER] ✅ Print worker started and ready")
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Printf("[WORKER] 🛑 Print worker stopped (processed: %d, failed: %d)", w.jobsProcessed, w.jobsFailed)
}

// run is the main worker loop
func (w *Worker) run() {
	defer w.wg.Done()

	log.Println("[WORKER] 👂 Waiting for print jobs...")

	for {
		select {
		case <-w.stopChan:
			log.Println("[WORKER] 📴 Received stop signal")
			return

		case job, ok := <-w.jobQueue:
			if !ok {
				log.Println("[WORKER] 📴 Job channel closed, exiting")
				return
			}
			w.processJob(job)
		}
	}
}

// processJob handles a single print job
func (w *Worker) processJob(job *server.PrintJob) {
	startTime := time.Now()
	log.Printf("[WORKER] 🔄 Processing job: %s", job.ID)

	result, err := w.executePrint(job)

	duration := time.Since(startTime)

	// Update statistics
	w.mu.Lock()
	w.lastJobTime = time.Now()
	if err != nil {
		w.jobsFailed++
	} else {
		w.jobsProcessed++
	}
	w.mu.Unlock()

	// Prepare response. A print failure is soft: the client still holds its
	// image and the daemon keeps serving.
	var response server.Response
	if err != nil {
		// Log detailed error to file for debugging
		log.Printf("[WORKER] ❌ Job %s FAILED after %v: %v", job.ID, duration, err)

		response = server.Response{
			Type:    "result",
			ID:      job.ID,
			Status:  "error",
			Message: workererrors.ExtractUserFriendlyError(err),
		}
	} else {
		log.Printf("[WORKER] ✅ Job %s printed on %s in %v", job.ID, result.PrinterName, duration)
		response = server.Response{
			Type:    "result",
			ID:      job.ID,
			Status:  "success",
			Printer: result.PrinterName,
			Message: fmt.Sprintf("Print completed in %v", duration.Round(time.Millisecond)),
		}
	}

	// Notify client (async to not block worker loop)
	if job.ClientConn != nil && w.notifier != nil {
		go func() {
			if err := w.notifier.NotifyClient(job.ClientConn, response); err != nil {
				log.Printf("[WORKER] ⚠️ Failed to notify client for job %s: %v", job.ID, err)
			}
		}()
	}
}

// executePrint performs the actual submission through the spool package
func (w *Worker) executePrint(job *server.PrintJob) (result spool.JobResult, err error) {
	// Convert panics into errors so one bad job cannot kill the loop
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered in executePrint: %v", r)
			log.Printf("[WORKER] 💥 Panic in job %s: %v\nStack: %s",
				job.ID, r, debug.Stack())
		}
	}()

	if len(job.Image) == 0 {
		return spool.JobResult{}, fmt.Errorf("job %s has no image data", job.ID)
	}

	return w.submitter.Submit(job.Image, job.Options)
}

// Stats returns current worker statistics
func (w *Worker) Stats() Statistics {
	w.mu.Lock()
	defer w.mu.Unlock()

	return Statistics{
		IsRunning:     w.isRunning,
		JobsProcessed: w.jobsProcessed,
		JobsFailed:    w.jobsFailed,
		LastJobTime:   w.lastJobTime,
	}
}

// Statistics holds worker runtime statistics
type Statistics struct {
	IsRunning     bool      `json:"is_running"`
	JobsProcessed int64     `json:"jobs_processed"`
	JobsFailed    int64     `json:"jobs_failed"`
	LastJobTime   time.Time `json:"last_job_time,omitempty"`
}
