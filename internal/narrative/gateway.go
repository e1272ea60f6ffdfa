// Package narrative runs prompts against the text generator. Generate never
// fails: when the generator cannot answer, the caller's fallback is returned
// and the Result says so.
package narrative

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/prompt"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/circuitbreaker"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/logger"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/metrics"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/otel"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/util"
)

type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Fallback reasons that do not come from a failed call
const (
	ReasonDisabled    = "disabled"
	ReasonRateLimited = "rate_limited"
	ReasonMalformed   = "malformed_response"
)

var ErrEmptyResponse = errors.New("generator returned no content")

// Result is either generated text or the designated fallback
type Result struct {
	Text   string
	Source Source
	// Reason is set for fallbacks
	Reason string
}

func (r Result) IsFallback() bool { return r.Source == SourceFallback }

type Config struct {
	Timeout time.Duration
	Breaker circuitbreaker.Config
}

func DefaultConfig() Config {
	return Config{
		Timeout: 15 * time.Second,
		Breaker: circuitbreaker.Config{
			FailureThreshold:    3,
			SuccessThreshold:    2,
			Timeout:             30 * time.Second,
			HalfOpenMaxRequests: 2,
		},
	}
}

type Gateway struct {
	model   model.BaseChatModel
	timeout time.Duration
	cb      *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewGateway wraps m. A nil m is allowed and makes every call fall back.
func NewGateway(m model.BaseChatModel, cfg Config, logger *zap.Logger) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	breaker := cfg.Breaker
	breaker.OnStateChange = func(from, to circuitbreaker.State) {
		logger.Warn("Generator circuit breaker state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return &Gateway{
		model:   m,
		timeout: cfg.Timeout,
		cb:      circuitbreaker.NewCircuitBreaker(breaker),
		logger:  logger,
	}
}

// Enabled reports whether a generator is configured
func (g *Gateway) Enabled() bool { return g.model != nil }

// Status is "disabled" without a generator, otherwise the breaker state
// (closed, open or half_open)
func (g *Gateway) Status() string {
	if !g.Enabled() {
		return ReasonDisabled
	}
	return g.BreakerState().String()
}

// Generate executes req once, without retry. Any failure yields fallback.
func (g *Gateway) Generate(ctx context.Context, req prompt.Request, fallback string) Result {
	kind := string(req.Kind)
	if g.model == nil {
		return g.Fallback(req.Kind, fallback, ReasonDisabled)
	}

	ctx, span := otel.StartSpan(ctx, "narrative.Generate")
	span.SetAttributes(attribute.String("narrative.kind", kind))

	var text string
	err := g.cb.Execute(func() error {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		start := time.Now()
		msg, err := g.model.Generate(callCtx,
			[]*schema.Message{
				schema.SystemMessage(req.SystemRole),
				schema.UserMessage(req.UserPrompt),
			},
			model.WithMaxTokens(req.MaxOutputTokens),
			model.WithTemperature(req.Temperature),
		)
		latency := time.Since(start)
		if err != nil {
			metrics.RecordNarrativeCallLatency(kind, "error", latency)
			return err
		}
		metrics.RecordNarrativeCallLatency(kind, "success", latency)

		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			return ErrEmptyResponse
		}
		text = strings.TrimSpace(msg.Content)
		return nil
	})
	otel.EndSpan(span, err)

	if err != nil {
		reason := util.ClassifyFailure(err)
		if errors.Is(err, ErrEmptyResponse) {
			reason = ReasonMalformed
		}
		logger.WithTrace(ctx, g.logger).Warn("Text generation failed, using fallback",
			zap.String("kind", kind),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return g.Fallback(req.Kind, fallback, reason)
	}
	return Result{Text: text, Source: SourceGenerated}
}

// Fallback builds a fallback Result and counts it
func (g *Gateway) Fallback(kind prompt.Kind, text, reason string) Result {
	metrics.IncrementNarrativeFallback(string(kind), reason)
	return Result{Text: text, Source: SourceFallback, Reason: reason}
}

// ClassifyMood runs a mood request and always returns positive, negative or
// neutral.
func (g *Gateway) ClassifyMood(ctx context.Context, req prompt.Request) string {
	res := g.Generate(ctx, req, prompt.MoodNeutral)
	return prompt.ParseMood(res.Text)
}

// BreakerState is the current circuit breaker state
func (g *Gateway) BreakerState() circuitbreaker.State {
	return g.cb.State()
}
