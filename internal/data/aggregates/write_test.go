package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

type fakeRunner struct {
	errs  []error
	calls int
}

func (f *fakeRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	f.calls++
	if len(f.errs) == 0 {
		return fn(dbctx.Context{Ctx: ctx})
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func TestWriterRetriesRetryable(t *testing.T) {
	r := &fakeRunner{errs: []error{&pgconn.PgError{Code: "40001"}, &pgconn.PgError{Code: "40P01"}}}
	w := NewWriter(r, logger.Nop(), 3)
	w.Backoff = 0

	ran := false
	err := w.Execute(context.Background(), "taste.review", func(dbctx.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if r.calls != 3 || !ran {
		t.Fatalf("calls=%d ran=%v", r.calls, ran)
	}
}

func TestWriterGivesUpAfterMaxAttempts(t *testing.T) {
	r := &fakeRunner{errs: []error{
		&pgconn.PgError{Code: "40001"},
		&pgconn.PgError{Code: "40001"},
		&pgconn.PgError{Code: "40001"},
		&pgconn.PgError{Code: "40001"},
	}}
	w := NewWriter(r, logger.Nop(), 3)
	w.Backoff = 0

	err := w.Execute(context.Background(), "taste.review", func(dbctx.Context) error { return nil })
	if !IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
	if r.calls != 3 {
		t.Fatalf("calls=%d", r.calls)
	}
}

func TestWriterDoesNotRetryOtherFailures(t *testing.T) {
	sentinel := errors.New("domain failure")
	r := &fakeRunner{}
	w := NewWriter(r, logger.Nop(), 3)

	err := w.Execute(context.Background(), "taste.review", func(dbctx.Context) error { return sentinel })
	if !errors.Is(err, sentinel) || CodeOf(err) != CodeInternal {
		t.Fatalf("got %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("calls=%d", r.calls)
	}
}

type recordingHooks struct {
	ops       []string
	conflicts int
	retries   int
}

func (h *recordingHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.ops = append(h.ops, name+":"+status)
}
func (h *recordingHooks) IncConflict(string) { h.conflicts++ }
func (h *recordingHooks) IncRetry(string)    { h.retries++ }

func TestWriterReportsToHooks(t *testing.T) {
	r := &fakeRunner{errs: []error{&pgconn.PgError{Code: "40001"}, &pgconn.PgError{Code: "23505"}}}
	h := &recordingHooks{}
	w := NewWriter(r, logger.Nop(), 3)
	w.Backoff = 0
	w.Hooks = h

	err := w.Execute(context.Background(), "taste.review", func(dbctx.Context) error { return nil })
	if !IsCode(err, CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if h.retries != 1 || h.conflicts != 1 {
		t.Fatalf("retries=%d conflicts=%d", h.retries, h.conflicts)
	}
	if len(h.ops) != 2 || h.ops[0] != "taste.review:retryable" || h.ops[1] != "taste.review:conflict" {
		t.Fatalf("ops=%v", h.ops)
	}
}

func TestNewObservabilityHooksNil(t *testing.T) {
	if _, ok := NewObservabilityHooks(nil).(noopHooks); !ok {
		t.Fatalf("expected noop hooks for nil metrics")
	}
}
