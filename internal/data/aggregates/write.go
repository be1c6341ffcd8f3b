package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

// Writer runs named write operations in a transaction, retrying the whole
// transaction when the failure is classified retryable.
type Writer struct {
	Runner      TxRunner
	Log         *logger.Logger
	Hooks       Hooks
	MaxAttempts int
	Backoff     time.Duration
}

func NewWriter(runner TxRunner, log *logger.Logger, maxAttempts int) *Writer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Writer{
		Runner:      runner,
		Log:         log.With("component", "AggregateWriter"),
		Hooks:       noopHooks{},
		MaxAttempts: maxAttempts,
		Backoff:     25 * time.Millisecond,
	}
}

// Execute runs fn. The returned error, if any, has been passed through MapError.
func (w *Writer) Execute(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error {
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	hooks := w.Hooks
	if hooks == nil {
		hooks = noopHooks{}
	}
	attempts := w.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var mapped error
	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		mapped = MapError(op, w.Runner.InTx(ctx, fn))
		if mapped == nil {
			hooks.ObserveOperation(op, "success", time.Since(start))
			w.Log.Debug("aggregate write committed", "op", op, "attempt", attempt, "duration", time.Since(start))
			return nil
		}
		hooks.ObserveOperation(op, string(CodeOf(mapped)), time.Since(start))
		if IsCode(mapped, CodeConflict) {
			hooks.IncConflict(op)
		}
		if !IsRetryable(mapped) || attempt == attempts {
			break
		}
		hooks.IncRetry(op)
		w.Log.Warn("aggregate write retrying", "op", op, "attempt", attempt, "error", mapped)
		select {
		case <-ctx.Done():
			return MapError(op, ctx.Err())
		case <-time.After(w.Backoff * time.Duration(attempt)):
		}
	}
	w.Log.Warn("aggregate write failed", "op", op, "code", CodeOf(mapped), "error", mapped)
	return mapped
}
