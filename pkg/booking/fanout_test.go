package booking

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle_KeepsOrderAndIsolatesFailures(t *testing.T) {
	boom := &Error{Code: CodeUnknown, Message: "boom", Status: 500}

	outcomes := Settle(context.Background(),
		func(context.Context) (interface{}, error) {
			time.Sleep(20 * time.Millisecond)
			return "slow", nil
		},
		func(context.Context) (interface{}, error) { return nil, boom },
		func(context.Context) (interface{}, error) { return 42, nil },
	)

	require.Len(t, outcomes, 3)
	assert.Equal(t, Outcome{Value: "slow"}, outcomes[0])
	assert.Equal(t, Outcome{Err: boom}, outcomes[1])
	assert.Equal(t, Outcome{Value: 42}, outcomes[2])
}

func TestSettle_RunsConcurrently(t *testing.T) {
	var inFlight, peak int32
	call := func(context.Context) (interface{}, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil, nil
	}

	Settle(context.Background(), call, call, call)
	assert.Equal(t, int32(3), atomic.LoadInt32(&peak))

	atomic.StoreInt32(&peak, 0)
	SettleLimit(context.Background(), 1, call, call, call)
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestSettle_FailureDoesNotCancelOthers(t *testing.T) {
	outcomes := Settle(context.Background(),
		func(context.Context) (interface{}, error) { return nil, errors.New("fast failure") },
		func(ctx context.Context) (interface{}, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(20 * time.Millisecond):
				return "done", nil
			}
		},
	)

	assert.Error(t, outcomes[0].Err)
	assert.True(t, outcomes[1].OK())
	assert.Equal(t, "done", outcomes[1].Value)
}

func TestSettle_NilCall(t *testing.T) {
	outcomes := Settle(context.Background(), nil)
	require.Len(t, outcomes, 1)
	assert.Error(t, outcomes[0].Err)
	assert.Empty(t, Settle(context.Background()))
}
