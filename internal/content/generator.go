package content

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Generator turns a prompt into a Record. Implementations never fail: any error is
// absorbed and replaced by Fallback.
type Generator interface {
	Generate(ctx context.Context, req Request) Record
	Name() string
}

// Config selects and tunes a generator.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// Delay is how long the offline generator pretends to think.
	Delay time.Duration
}

const (
	DefaultModel = "gemini-2.5-flash"
	DefaultDelay = 1500 * time.Millisecond
)

// New returns a GenAI-backed generator when an API key is configured and the offline
// generator otherwise.
func New(ctx context.Context, cfg Config, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIKey == "" {
		logger.Info("no API key configured, using offline generator")
		return NewMock(cfg.Delay)
	}
	g, err := NewGenAI(ctx, cfg, logger)
	if err != nil {
		logger.Warn("genai client unavailable, using offline generator", zap.Error(err))
		return NewMock(cfg.Delay)
	}
	return g
}

// Mock is the offline generator.
type Mock struct {
	delay time.Duration
}

func NewMock(delay time.Duration) *Mock {
	if delay < 0 {
		delay = 0
	}
	return &Mock{delay: delay}
}

// Generate waits for the configured delay, or until ctx is done, then returns Fallback.
func (m *Mock) Generate(ctx context.Context, req Request) Record {
	if m.delay > 0 {
		t := time.NewTimer(m.delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}
	return Fallback(req.Prompt)
}

func (m *Mock) Name() string { return "offline" }
