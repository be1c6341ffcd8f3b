package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/jumak-backend/internal/data/aggregates"
	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
)

// InjectedTxRunner wraps a runner and fails selected attempts before the
// body runs. With a nil Inner the body runs against a bare context.
type InjectedTxRunner struct {
	mu sync.Mutex

	Inner aggregates.TxRunner
	// FailBegin is consumed one error per InTx call; nil entries let the call through.
	FailBegin  []error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	var failBegin error
	if len(r.FailBegin) > 0 {
		failBegin = r.FailBegin[0]
		r.FailBegin = r.FailBegin[1:]
	}
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		r.count(&r.RollbackCalls)
		return failBegin
	}

	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		// returning an error from the body makes Inner roll back
		return failCommit
	}
	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}
	if err != nil {
		r.count(&r.RollbackCalls)
		return err
	}
	r.count(&r.CommitCalls)
	return nil
}

func (r *InjectedTxRunner) count(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
