// Package server handles WebSocket connections and print job queueing.
package server

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/papelito/coloring-daemon/internal/printer"
	"github.com/papelito/coloring-daemon/internal/spool"
)

// PrinterLister is the discovery surface the server needs for status replies.
type PrinterLister interface {
	Printers() ([]spool.Printer, error)
	Summary() printer.Summary
}

// TokenChecker validates job tokens and tracks abusive clients.
type TokenChecker interface {
	Enabled() bool
	ValidateToken(token string) bool
	IsLockedOut(ip string) bool
	RecordFailedAttempt(ip string)
	ClearFailedAttempts(ip string)
}

// Config holds server configuration
type Config struct {
	QueueSize        int
	AllowedOrigins   []string // nil enforces same-origin
	MaxJobsPerMinute int
}

// PrintJob represents a queued print request
type PrintJob struct {
	ID         string          `json:"id"`
	ClientConn *websocket.Conn `json:"-"`
	Image      []byte          `json:"-"`
	Options    spool.Options   `json:"options"`
	ReceivedAt time.Time       `json:"received_at"`
}

// JobOptions is the wire form of spool.Options.
type JobOptions struct {
	Copies    int               `json:"copies,omitempty"`
	MediaSize string            `json:"media_size,omitempty"`
	Grayscale bool              `json:"grayscale,omitempty"`
	FitToPage bool              `json:"fit_to_page,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

func (o *JobOptions) toSpool() spool.Options {
	if o == nil {
		return spool.Options{}
	}
	return spool.Options{
		Copies:    o.Copies,
		MediaSize: o.MediaSize,
		Grayscale: o.Grayscale,
		FitToPage: o.FitToPage,
		Extra:     o.Extra,
	}
}

// Message represents incoming WebSocket message
type Message struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Token   string      `json:"token,omitempty"`
	Image   string      `json:"image,omitempty"` // base64-encoded PNG
	Options *JobOptions `json:"options,omitempty"`
}

// Response represents outgoing WebSocket message
type Response struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	Printer  string `json:"printer,omitempty"`
	Current  int    `json:"current,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

// Server manages WebSocket connections and the job queue
type Server struct {
	clients      *ClientRegistry
	jobQueue     chan *PrintJob
	queueSize    int
	shutdownOnce sync.Once
	shutdownChan chan struct{}
	discovery    PrinterLister
	tokens       TokenChecker
	limiter      *JobRateLimiter
	origins      []string
}

// NewServer creates a new WebSocket server
func NewServer(cfg Config, discovery PrinterLister, tokens TokenChecker) *Server {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.MaxJobsPerMinute <= 0 {
		cfg.MaxJobsPerMinute = 30
	}

	return &Server{
		clients:      NewClientRegistry(),
		jobQueue:     make(chan *PrintJob, cfg.QueueSize),
		queueSize:    cfg.QueueSize,
		shutdownChan: make(chan struct{}),
		discovery:    discovery,
		tokens:       tokens,
		limiter:      NewJobRateLimiter(cfg.MaxJobsPerMinute),
		origins:      cfg.AllowedOrigins,
	}
}

// QueueStatus returns current and max queue size
func (s *Server) QueueStatus() (current, capacity int) {
	return len(s.jobQueue), cap(s.jobQueue)
}

// JobQueue returns the job queue channel (for worker consumption)
func (s *Server) JobQueue() <-chan *PrintJob {
	return s.jobQueue
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		log.Printf("[WS] ❌ Error accepting client: %v", err)
		return
	}

	// Register client
	s.clients.Add(conn)
	log.Printf("[WS] ➕ Client connected (total: %d) from %s", s.clients.Count(), r.RemoteAddr)

	// Send welcome message
	ctx := r.Context()
	welcome := Response{
		Type:    "info",
		Status:  "connected",
		Message: "✅ Coloring daemon ready",
	}
	_ = wsjson.Write(ctx, conn, welcome)

	// Handle messages
	s.handleMessages(ctx, conn, r.RemoteAddr)

	// Cleanup on disconnect
	s.clients.Remove(conn)
	if err := conn.Close(websocket.StatusNormalClosure, "disconnected"); err != nil {
		return
	}
	log.Printf("[WS] ➖ Client disconnected (remaining: %d)", s.clients.Count())
}

// handleMessages processes incoming messages from a client
func (s *Server) handleMessages(ctx context.Context, conn *websocket.Conn, remoteAddr string) {
	for {
		select {
		case <-s.shutdownChan:
			return
		default:
		}

		var msg Message
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			// Normal closure or context cancelled
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				ctx.Err() != nil {
				return
			}
			log.Printf("[WS] ⚠️ Error reading message: %v", err)
			return
		}

		s.routeMessage(ctx, conn, remoteAddr, &msg)
	}
}

// routeMessage routes message to appropriate handler
func (s *Server) routeMessage(ctx context.Context, conn *websocket.Conn, remoteAddr string, msg *Message) {
	switch msg.Type {
	case "print":
		s.handlePrint(ctx, conn, remoteAddr, msg)
	case "status":
		s.handleStatus(ctx, conn)
	case "ping":
		s.handlePing(ctx, conn, msg)
	case "get_printers":
		s.handleGetPrinters(ctx, conn)
	default:
		log.Printf("[WS] ⚠️ Unknown message type: %s", msg.Type)
		s.sendError(ctx, conn, msg.ID, "Unknown message type: "+msg.Type)
	}
}

// handlePrint validates and queues a print job request
func (s *Server) handlePrint(ctx context.Context, conn *websocket.Conn, remoteAddr string, msg *Message) {
	// Generate ID if not provided
	jobID := msg.ID
	if jobID == "" {
		jobID = uuid.New().String()
	}

	if !s.limiter.Allow(remoteAddr) {
		log.Printf("[QUEUE] 🚫 Job %s rejected: rate limit for %s", jobID, remoteAddr)
		s.sendError(ctx, conn, jobID, "Too many jobs, slow down")
		return
	}

	if s.tokens != nil && s.tokens.Enabled() {
		if s.tokens.IsLockedOut(remoteAddr) {
			log.Printf("[AUDIT] JOB_BLOCKED | IP=%s | reason=lockout", remoteAddr)
			s.sendError(ctx, conn, jobID, "Too many bad tokens, try again later")
			return
		}
		if !s.tokens.ValidateToken(msg.Token) {
			s.tokens.RecordFailedAttempt(remoteAddr)
			log.Printf("[AUDIT] JOB_TOKEN_FAILED | IP=%s", remoteAddr)
			s.sendError(ctx, conn, jobID, "Invalid token")
			return
		}
		s.tokens.ClearFailedAttempts(remoteAddr)
	}

	// Validate image exists
	if msg.Image == "" {
		log.Printf("[QUEUE] ❌ Job %s rejected: missing 'image' field", jobID)
		s.sendError(ctx, conn, jobID, "Field 'image' is required for type 'print'")
		return
	}

	image, err := base64.StdEncoding.DecodeString(msg.Image)
	if err != nil {
		log.Printf("[QUEUE] ❌ Job %s rejected: bad base64 image: %v", jobID, err)
		s.sendError(ctx, conn, jobID, "Field 'image' is not valid base64")
		return
	}

	// Create job
	job := &PrintJob{
		ID:         jobID,
		ClientConn: conn,
		Image:      image,
		Options:    msg.Options.toSpool(),
		ReceivedAt: time.Now(),
	}

	// Try to enqueue (non-blocking)
	select {
	case s.jobQueue <- job:
		current, capacity := s.QueueStatus()
		log.Printf("[QUEUE] 📥 Job queued: %s (queue: %d/%d)", jobID, current, capacity)

		response := Response{
			Type:     "ack",
			ID:       jobID,
			Status:   "queued",
			Current:  current,
			Capacity: capacity,
			Message:  "Job queued for printing",
		}
		_ = wsjson.Write(ctx, conn, response)

	default:
		// Queue full
		current, capacity := s.QueueStatus()
		log.Printf("[QUEUE] 🚫 Queue full, rejecting job: %s (%d/%d)", jobID, current, capacity)
		s.sendError(ctx, conn, jobID, "Queue full, please retry in a few seconds")
	}
}

// handleStatus sends queue status
func (s *Server) handleStatus(ctx context.Context, conn *websocket.Conn) {
	current, capacity := s.QueueStatus()

	response := Response{
		Type:     "status",
		Status:   "ok",
		Current:  current,
		Capacity: capacity,
		Message:  formatStatus(current, capacity),
	}
	_ = wsjson.Write(ctx, conn, response)
}

// handlePing responds to ping
func (s *Server) handlePing(ctx context.Context, conn *websocket.Conn, msg *Message) {
	response := Response{
		Type:   "pong",
		ID:     msg.ID,
		Status: "ok",
	}
	_ = wsjson.Write(ctx, conn, response)
}

// handleGetPrinters handles printer enumeration requests
func (s *Server) handleGetPrinters(ctx context.Context, conn *websocket.Conn) {
	printers, err := s.discovery.Printers()
	if err != nil {
		s.sendError(ctx, conn, "", "Failed to enumerate printers: "+err.Error())
		return
	}

	// Convert to DTOs
	dtos := make([]printer.DetailDTO, len(printers))
	for i, p := range printers {
		dtos[i] = printer.DetailDTO{
			Name:  p.Name,
			State: p.State.String(),
		}
	}

	response := struct {
		Type     string              `json:"type"`
		Status   string              `json:"status"`
		Printers []printer.DetailDTO `json:"printers"`
		Summary  printer.Summary     `json:"summary"`
	}{
		Type:     "printers",
		Status:   "ok",
		Printers: dtos,
		Summary:  s.discovery.Summary(),
	}

	_ = wsjson.Write(ctx, conn, response)
}

// sendError sends error response to client
func (s *Server) sendError(ctx context.Context, conn *websocket.Conn, id, message string) {
	response := Response{
		Type:    "error",
		ID:      id,
		Status:  "error",
		Message: message,
	}
	_ = wsjson.Write(ctx, conn, response)
}

// NotifyClient sends a result back to a specific client
func (s *Server) NotifyClient(conn *websocket.Conn, response Response) error {
	if conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return wsjson.Write(ctx, conn, response)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)

		clientCount := s.clients.Count()
		log.Printf("[WS] 🛑 Shutting down, disconnecting %d clients", clientCount)

		// Notify all clients
		s.clients.ForEach(func(conn *websocket.Conn) {
			if err := conn.Close(websocket.StatusGoingAway, "Server shutting down"); err != nil {
				return
			}
		})
	})
}

func formatStatus(current, capacity int) string {
	return "Queue: " + strconv.Itoa(current) + "/" + strconv.Itoa(capacity)
}
