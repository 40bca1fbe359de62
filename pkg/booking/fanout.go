package booking

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

var errNilCall = errors.New("nil call")

// Call is one independent API call of a fan-out
type Call func(ctx context.Context) (interface{}, error)

// Outcome is the settled result of a Call
type Outcome struct {
	Value interface{}
	Err   error
}

// OK reports whether the call succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Settle runs calls concurrently and waits until every one has finished.
// Outcomes are in call order. A failing call does not cancel the others.
func Settle(ctx context.Context, calls ...Call) []Outcome {
	return SettleLimit(ctx, 0, calls...)
}

// SettleLimit is Settle with at most limit calls in flight; zero or less
// means no limit
func SettleLimit(ctx context.Context, limit int, calls ...Call) []Outcome {
	outcomes := make([]Outcome, len(calls))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, call := range calls {
		if call == nil {
			outcomes[i] = Outcome{Err: errNilCall}
			continue
		}
		g.Go(func() error {
			v, err := call(ctx)
			outcomes[i] = Outcome{Value: v, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}
