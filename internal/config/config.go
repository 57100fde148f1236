// Package config defines environment-specific settings for the Coloring Daemon.
package config

import (
	"log"
	"path/filepath"
	"strings"
	"time"
)

// Build variables, injected at compile time
var (
	BuildEnvironment = "local"
	BuildDate        = "unknown"
	BuildTime        = "unknown"
	// ServiceName is used for logging and as part of the log file path.
	ServiceName = "ColoringDaemon_Unknown"
	// TokenHashB64 is a base64-encoded bcrypt hash of the job token,
	// injected via ldflags. If empty, print job submissions are accepted
	// without token validation (dev mode).
	TokenHashB64 = ""
	// ServerPort is the default port for the service, can be overridden by environment config.
	ServerPort = "8767"
	// AllowedOrigins is a comma-separated list of allowed origins injected via ldflags.
	// Example: "https://color.example.com,http://localhost:*"
	AllowedOrigins = ""
)

// Environment holds environment-specific settings
type Environment struct {
	// Identification
	Name        string
	ServiceName string

	// Network
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Queue
	QueueCapacity int

	// Logging
	Verbose bool

	// Spooler
	ScratchDir      string        // empty means the system temp dir
	WatcherInterval time.Duration // pause-watcher poll interval
	ListCommand     string        // spooler tool overrides; empty means CUPS defaults
	SubmitCommand   string
	ResumeCommand   string

	// Security
	AllowedOrigins []string
}

// LogPath returns the full log file path for this environment.
// Uses the convention: <stateDir>/<ServiceName>/<ServiceName>.log
func (e Environment) LogPath(stateDir string) string {
	return filepath.Join(stateDir, e.ServiceName, e.ServiceName+".log")
}

// environments defines available deployment configurations
var environments = map[string]Environment{
	"remote": {
		Name:            "REMOTE",
		ServiceName:     ServiceName,
		ListenAddr:      "0.0.0.0:" + ServerPort,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		QueueCapacity:   50,
		Verbose:         false,
		ScratchDir:      "",
		WatcherInterval: 1 * time.Second,
		// By default, restrict to localhost and file (Electron) for security
		AllowedOrigins: []string{"http://localhost:*", "https://localhost:*", "file://*"},
	},
	"local": {
		Name:            "LOCAL",
		ServiceName:     ServiceName,
		ListenAddr:      "localhost:" + ServerPort,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		QueueCapacity:   50,
		Verbose:         true,
		ScratchDir:      "",
		WatcherInterval: 1 * time.Second,
		// Allow all in local dev mode for convenience, but can be overridden
		AllowedOrigins: []string{"*"},
	},
}

// GetEnvironment returns config for the specified environment.
func GetEnvironment(env string) Environment {
	cfg, ok := environments[env]
	if !ok {
		log.Printf("[!] Unknown environment '%s', defaulting to 'local'", env)
		cfg = environments["local"]
	}

	// Override allowed origins from ldflags if provided
	if AllowedOrigins != "" {
		cfg.AllowedOrigins = strings.Split(AllowedOrigins, ",")
	}

	return cfg
}
