package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/orderdesk-backend/internal/data/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/pkg/dbctx"
)

// FaultyTxRunner wraps a real runner and fails transactions on demand.
// FailBegin rejects the call before a transaction opens. FailCommit lets the
// body issue its writes and then aborts, so Inner rolls every write back.
type FaultyTxRunner struct {
	Inner aggregates.TxRunner

	FailBegin  error
	FailCommit error

	mu        sync.Mutex
	calls     int
	rollbacks int
}

var _ aggregates.TxRunner = (*FaultyTxRunner)(nil)

func (r *FaultyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.calls++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	err := r.Inner.InTx(ctx, func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	})
	if err != nil {
		r.mu.Lock()
		r.rollbacks++
		r.mu.Unlock()
	}
	return err
}

// Calls reports how many transactions were requested.
func (r *FaultyTxRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Rollbacks reports how many transactions ended in an error.
func (r *FaultyTxRunner) Rollbacks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rollbacks
}
