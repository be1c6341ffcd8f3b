package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
)

func TestInjectedTxRunner_CommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_RollbackOnBodyError(t *testing.T) {
	r := &InjectedTxRunner{}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Fatalf("expected body err, got %v", err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_FailCommitTriggersRollback(t *testing.T) {
	commitErr := errors.New("commit failed")
	r := &InjectedTxRunner{FailCommit: commitErr}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return nil
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_FailBeginIsConsumedPerCall(t *testing.T) {
	beginErr := errors.New("serialization failure")
	r := &InjectedTxRunner{FailBegin: []error{beginErr, nil}}
	calls := 0
	body := func(_ dbctx.Context) error {
		calls++
		return nil
	}

	if err := r.InTx(context.Background(), body); !errors.Is(err, beginErr) {
		t.Fatalf("first call: expected begin err, got %v", err)
	}
	if err := r.InTx(context.Background(), body); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if err := r.InTx(context.Background(), body); err != nil {
		t.Fatalf("third call: %v", err)
	}
	if calls != 2 || r.BeginCalls != 3 || r.CommitCalls != 2 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters calls=%d begin=%d commit=%d rollback=%d", calls, r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

type recordingRunner struct{ calls int }

func (r *recordingRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.calls++
	return fn(dbctx.Context{Ctx: ctx})
}

func TestInjectedTxRunner_DelegatesToInner(t *testing.T) {
	inner := &recordingRunner{}
	r := &InjectedTxRunner{Inner: inner}
	if err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if inner.calls != 1 || r.CommitCalls != 1 {
		t.Fatalf("inner=%d commit=%d", inner.calls, r.CommitCalls)
	}
}
