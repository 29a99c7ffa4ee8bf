// Package pipeline ties intent extraction, context composition, prompt
// building, and answer generation into one request flow.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/common/metrics"
	"travel-assistant/internal/composer"
	"travel-assistant/internal/intent"
	"travel-assistant/internal/prompt"
)

// FallbackAnswer is returned when the model call fails. The underlying
// reason is logged for operators; the user never sees a technical error.
const FallbackAnswer = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."

// Generator is the answer-generation dependency.
type Generator interface {
	Generate(ctx context.Context, system, promptText string) (string, error)
}

// Answer is the result of one processed query.
type Answer struct {
	RequestID string
	Text      string
	Intent    *intent.Intent
	Context   *composer.ComposedContext
	Degraded  bool
}

// Assistant answers free-text travel questions. Each call is stateless;
// conversation history is supplied by the caller.
type Assistant struct {
	composer  *composer.Composer
	builder   *prompt.Builder
	generator Generator
	logger    logger.Logger
}

func NewAssistant(comp *composer.Composer, builder *prompt.Builder, generator Generator, log logger.Logger) *Assistant {
	return &Assistant{
		composer:  comp,
		builder:   builder,
		generator: generator,
		logger:    log.With(map[string]interface{}{"component": "pipeline"}),
	}
}

// Answer processes one query end to end. The only user-visible failure is a
// degraded fallback answer; everything upstream of the model call renders
// into the context instead of failing the request.
func (a *Assistant) Answer(ctx context.Context, query string, history []prompt.Turn) *Answer {
	start := time.Now()
	requestID := uuid.New().String()
	log := a.logger.With(map[string]interface{}{"requestId": requestID})

	log.Info("processing query", map[string]interface{}{
		"queryLength": len(query),
	})

	in := intent.Extract(query)
	log.Debug("intent extracted", map[string]interface{}{
		"topics":    in.Topics,
		"locations": len(in.Locations),
		"dates":     in.Dates,
	})

	composed := a.composer.Compose(ctx, in, query)
	rendered := a.builder.Build(query, composed.Blocks, history)

	text, err := a.generator.Generate(ctx, prompt.SystemPolicy, rendered)
	degraded := err != nil
	if degraded {
		log.WithError(err).Error("answer generation failed", map[string]interface{}{
			"requestId": requestID,
		})
		text = FallbackAnswer
	}

	status := "success"
	if degraded {
		status = "degraded"
	}
	metrics.PipelineRequests.WithLabelValues(status).Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	log.Info("query processed", map[string]interface{}{
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Answer{
		RequestID: requestID,
		Text:      text,
		Intent:    in,
		Context:   composed,
		Degraded:  degraded,
	}
}
