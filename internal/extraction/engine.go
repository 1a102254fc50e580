package extraction

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultAITimeout bounds the wait on the generation service. A timeout is
// treated like any other primary-path failure.
const DefaultAITimeout = 20 * time.Second

// Engine runs the extraction sequence: normalize, attempt the AI primary
// path, validate its reply, and fall back to the deterministic extractor on
// any failure. It holds no per-request state; one Engine serves concurrent
// callers.
type Engine struct {
	gen     Generator
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides the primary-path timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithClock overrides the clock used for default timestamps. Tests use this
// to pin the fallback output.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an extraction engine. gen may be nil, in which case only
// the deterministic path runs.
func NewEngine(gen Generator, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		gen:     gen,
		timeout: DefaultAITimeout,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract converts raw text describing one or more UPI transactions into a
// Result. It never fails: primary-path errors (service or contract) are
// logged and recovered via the fallback, and an input with nothing usable
// yields the sentinel result.
func (e *Engine) Extract(ctx context.Context, rawText string) Result {
	normalized := Normalize(rawText)

	if e.gen != nil {
		if res, err := e.extractWithModel(ctx, normalized, rawText); err == nil {
			return res
		} else {
			e.log.Warn().Err(err).Msg("primary extraction path failed, using fallback")
		}
	}

	return fallbackExtract(normalized, rawText, e.now())
}

// extractWithModel runs the primary path under a bounded wait. This is the
// only place primary-path errors are suppressed; every component below either
// succeeds or signals failure upward.
func (e *Engine) extractWithModel(ctx context.Context, normalized, rawText string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.gen.Generate(ctx, buildPrompt(normalized))
	if err != nil {
		return Result{}, err
	}
	return parseModelReply(reply, rawText, e.now())
}
