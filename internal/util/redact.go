package util

import (
	"strings"
	"sync"
)

// Redactor removes registered secrets from strings before they reach logs or the terminal.
type Redactor struct {
	mu      sync.RWMutex
	secrets []string
}

// NewRedactor creates a redactor for the given secrets; empty values are ignored.
func NewRedactor(secrets ...string) *Redactor {
	r := &Redactor{}
	for _, s := range secrets {
		r.Add(s)
	}
	return r
}

// Add registers another secret.
func (r *Redactor) Add(secret string) {
	if secret == "" {
		return
	}
	r.mu.Lock()
	r.secrets = append(r.secrets, secret)
	r.mu.Unlock()
}

// String replaces every registered secret in s with a fixed placeholder.
func (r *Redactor) String(s string) string {
	if r == nil {
		return s
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, "REDACTED")
	}
	return s
}

// Mask shows only the last four characters of a secret, for config listings.
func Mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}
