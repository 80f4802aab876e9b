package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/chatnow/internal/answer"
	"github.com/ppiankov/chatnow/internal/metrics"
	"github.com/ppiankov/chatnow/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// startMetrics registers the answer metrics and serves them on addr until
// ctx is done. It returns a nil recorder when addr is empty.
func startMetrics(ctx context.Context, addr string, logger *zap.Logger) (*metrics.Recorder, error) {
	if addr == "" {
		return nil, nil
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	go func() {
		if err := metrics.Serve(ctx, addr, reg); err != nil {
			logger.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return rec, nil
}

// newAnswerer builds the configured backend. Configuration problems map to
// the invalid-input exit code.
func newAnswerer(ctx context.Context, s Settings, rec *metrics.Recorder) (answer.Answerer, error) {
	ans, err := answer.New(ctx, s.AnswerConfig(rec))
	if err != nil {
		if errors.Is(err, answer.ErrMissingAPIKey) || errors.Is(err, answer.ErrUnknownBackend) {
			return nil, util.InvalidInput(err)
		}
		return nil, fmt.Errorf("failed to create %s client: %w", s.Backend, err)
	}
	return ans, nil
}
