package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// ErrUnavailable is returned when every model in the chain failed or
// produced empty text.
var ErrUnavailable = errors.New("llm: text generation service unavailable")

// AttemptObserver receives the outcome of each per-model attempt.
type AttemptObserver interface {
	ObserveAttempt(model, status string, seconds float64)
}

// ModelChain walks an ordered list of model identifiers until one returns
// non-empty text. A thrown error and an empty reply are treated the same
// way: log it and try the next identifier. The chain is bounded by the
// model list, not by wall clock; callers own any deadline via ctx.
type ModelChain struct {
	client   Client
	models   []string
	logger   *slog.Logger
	observer AttemptObserver
}

// NewModelChain creates a chain over the given client and model ids.
func NewModelChain(client Client, models []string, logger *slog.Logger, observer AttemptObserver) *ModelChain {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelChain{
		client:   client,
		models:   models,
		logger:   logger,
		observer: observer,
	}
}

// Generate runs req against each model in order and returns the first
// non-empty text along with the model that produced it. req.Model is
// overwritten per attempt.
func (c *ModelChain) Generate(ctx context.Context, req Request) (string, string, error) {
	if c.client == nil || len(c.models) == 0 {
		return "", "", ErrUnavailable
	}

	var lastErr error
	for _, model := range c.models {
		attempt := req
		attempt.Model = model

		start := time.Now()
		resp, err := c.client.Complete(ctx, attempt)
		elapsed := time.Since(start).Seconds()

		if err != nil {
			lastErr = err
			c.logger.Warn("model attempt failed, trying next in chain",
				"model", model,
				"error", err.Error(),
			)
			c.observe(model, "error", elapsed)
			continue
		}

		text := strings.TrimSpace(resp.Text)
		if text == "" {
			c.logger.Warn("model returned empty text, trying next in chain",
				"model", model,
			)
			c.observe(model, "empty", elapsed)
			continue
		}

		c.observe(model, "ok", elapsed)
		return text, model, nil
	}

	c.logger.Error("all models in the fallback chain failed",
		"models", c.models,
	)
	if lastErr != nil {
		return "", "", errors.Join(ErrUnavailable, lastErr)
	}
	return "", "", ErrUnavailable
}

func (c *ModelChain) observe(model, status string, seconds float64) {
	if c.observer != nil {
		c.observer.ObserveAttempt(model, status, seconds)
	}
}
