package llm

import (
	"context"
	"log/slog"
)

// FallbackClient wraps a primary provider with a secondary one. If the
// primary fails, it automatically retries with the fallback, overriding
// the model id when the fallback provider uses a different one (Gemini
// primary, Bedrock secondary in the default wiring).
type FallbackClient struct {
	primary       Client
	fallback      Client
	fallbackModel string
	logger        *slog.Logger
}

// NewFallbackClient creates a fallback-enabled client. If fallback is
// nil, only the primary provider is used.
func NewFallbackClient(primary, fallback Client, fallbackModel string, logger *slog.Logger) *FallbackClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackClient{
		primary:       primary,
		fallback:      fallback,
		fallbackModel: fallbackModel,
		logger:        logger,
	}
}

// Complete sends the request to the primary provider, retrying with the
// fallback on failure.
func (c *FallbackClient) Complete(ctx context.Context, req Request) (Response, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary provider failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", c.fallback != nil,
	)

	if c.fallback == nil {
		return Response{}, err
	}

	fallbackReq := req
	if c.fallbackModel != "" {
		fallbackReq.Model = c.fallbackModel
	}

	fallbackResp, fallbackErr := c.fallback.Complete(ctx, fallbackReq)
	if fallbackErr != nil {
		c.logger.Error("fallback provider also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return Response{}, fallbackErr
	}

	c.logger.Info("fallback provider succeeded after primary failure")
	return fallbackResp, nil
}
