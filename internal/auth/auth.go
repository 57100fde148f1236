// Package auth provides job-token validation and brute-force protection.
package auth

import (
	"context"
	"encoding/base64"
	"log"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/papelito/coloring-daemon/internal/config"
)

const (
	MaxTokenAttempts = 5
	LockoutDuration  = 5 * time.Minute
	CleanupInterval  = 5 * time.Minute
)

type failInfo struct {
	count       int
	lockedUntil time.Time
}

// Manager validates the shared job token and throttles clients that keep
// presenting bad ones.
type Manager struct {
	failedAttempts map[string]failInfo
	mu             sync.RWMutex
}

// NewManager creates an auth manager with a cleanup goroutine bound to ctx.
func NewManager(ctx context.Context) *Manager {
	m := &Manager{
		failedAttempts: make(map[string]failInfo),
	}
	go m.cleanupLoop(ctx)
	log.Printf("[i] Auth manager initialized (enabled=%v)", m.Enabled())
	return m
}

// Enabled returns true if a token hash was injected at build time.
func (m *Manager) Enabled() bool {
	return config.TokenHashB64 != ""
}

// ValidateToken decodes the base64 hash and compares with bcrypt.
func (m *Manager) ValidateToken(token string) bool {
	if !m.Enabled() {
		log.Println("[!] AUTH DISABLED: No token hash configured (dev mode)")
		return true
	}
	hashBytes, err := base64.StdEncoding.DecodeString(config.TokenHashB64)
	if err != nil {
		log.Printf("[X] Failed to decode token hash from base64: %v", err)
		return false
	}
	return bcrypt.CompareHashAndPassword(hashBytes, []byte(token)) == nil
}

// IsLockedOut returns true if the IP has exceeded MaxTokenAttempts.
func (m *Manager) IsLockedOut(ip string) bool {
	m.mu.RLock()
	info, exists := m.failedAttempts[ip]
	m.mu.RUnlock()
	if !exists {
		return false
	}
	return info.count >= MaxTokenAttempts && time.Now().Before(info.lockedUntil)
}

// RecordFailedAttempt increments the failure counter for an IP.
func (m *Manager) RecordFailedAttempt(ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info := m.failedAttempts[ip]
	info.count++
	if info.count >= MaxTokenAttempts {
		info.lockedUntil = time.Now().Add(LockoutDuration)
		log.Printf("[AUDIT] IP %s locked out for %v after %d bad tokens",
			ip, LockoutDuration, info.count)
	}
	m.failedAttempts[ip] = info
}

// ClearFailedAttempts resets the counter after a valid token.
func (m *Manager) ClearFailedAttempts(ip string) {
	m.mu.Lock()
	delete(m.failedAttempts, ip)
	m.mu.Unlock()
}

func (m *Manager) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[i] Auth cleanup goroutine stopped")
			return
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for k, v := range m.failedAttempts {
				if v.count >= MaxTokenAttempts && now.After(v.lockedUntil) {
					delete(m.failedAttempts, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
