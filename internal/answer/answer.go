// Package answer turns one user message into one cleaned reply from the
// Gemini generateContent API.
package answer

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/chatnow/internal/metrics"
)

const (
	DefaultEndpoint   = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1"
	DefaultModel      = "gemini-1.5-pro"

	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// Answerer is satisfied by every backend.
type Answerer interface {
	GenerateAnswer(ctx context.Context, message string) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend    string
	Endpoint   string
	APIVersion string
	Model      string
	APIKey     string
	Timeout    time.Duration
	Metrics    *metrics.Recorder
}

// New builds the backend named by cfg.Backend ("rest" when empty).
func New(ctx context.Context, cfg Config) (Answerer, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	switch cfg.Backend {
	case "", BackendREST:
		return Client{
			Endpoint:   cfg.Endpoint,
			APIVersion: cfg.APIVersion,
			Model:      cfg.Model,
			APIKey:     cfg.APIKey,
			Timeout:    cfg.Timeout,
			Metrics:    cfg.Metrics,
		}, nil
	case BackendSDK:
		return NewSDKClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownBackend, cfg.Backend, BackendREST, BackendSDK)
	}
}
