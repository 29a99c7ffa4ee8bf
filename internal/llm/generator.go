package llm

import (
	"context"
	"errors"
	"time"

	"travel-assistant/internal/common/config"
	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/common/metrics"
)

// Generator wraps a Provider with a per-call timeout and a bounded retry
// for transient failures. Errors come back as typed values; callers render
// a degraded reply instead of crashing.
type Generator struct {
	provider   Provider
	timeout    time.Duration
	maxRetries int
	logger     logger.Logger
}

func NewGenerator(provider Provider, cfg config.LLMConfig, log logger.Logger) *Generator {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Generator{
		provider:   provider,
		timeout:    time.Duration(cfg.TimeoutMS) * time.Millisecond,
		maxRetries: maxRetries,
		logger:     log.With(map[string]interface{}{"component": "generator"}),
	}
}

// Generate produces the answer text for the prompt. A deadline expiry maps
// to LLM_TIMEOUT, anything else to LLM_GENERATION_FAILED.
func (g *Generator) Generate(ctx context.Context, system, promptText string) (string, error) {
	req := &Request{System: system, Prompt: promptText}

	var lastErr error
	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		text, err := g.provider.Generate(callCtx, req)
		cancel()
		if err == nil {
			metrics.LLMCalls.WithLabelValues("success").Inc()
			return text, nil
		}
		lastErr = err

		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			metrics.LLMCalls.WithLabelValues("timeout").Inc()
			return "", errs.NewLLMTimeoutError()
		}
		if attempt >= g.retryBudget(err) {
			break
		}

		backoff := time.Duration(100*(1<<uint(attempt))) * time.Millisecond
		g.logger.Warn("retrying generation", map[string]interface{}{
			"attempt": attempt + 2,
			"backoff": backoff.String(),
		})
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			metrics.LLMCalls.WithLabelValues("timeout").Inc()
			return "", errs.NewLLMTimeoutError()
		}
	}

	metrics.LLMCalls.WithLabelValues("error").Inc()
	return "", errs.NewLLMGenerationFailedError(lastErr)
}

// retryBudget bounds the retries allowed after a failed attempt. Typed
// non-retryable errors get none, typed retryable errors are capped by the
// per-code policy, and untyped provider errors are treated as transient
// transport failures.
func (g *Generator) retryBudget(err error) int {
	se, ok := errs.AsStandard(err)
	if !ok {
		return g.maxRetries
	}
	if !errs.IsRetryable(err) {
		return 0
	}
	if budget := errs.GetRetryCount(se.Code); budget < g.maxRetries {
		return budget
	}
	return g.maxRetries
}
