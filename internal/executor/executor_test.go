package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

type stubWallet struct {
	settle func(ctx context.Context) (*models.Settlement, error)
}

func (s *stubWallet) ParseDestination(ctx context.Context, raw string) (*models.DestinationDescriptor, error) {
	return nil, errors.New("not implemented")
}

func (s *stubWallet) IsConnected(ctx context.Context) bool { return true }

func (s *stubWallet) Balance(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubWallet) SettlePayment(ctx context.Context, desc *models.DestinationDescriptor, amountSat int64, comment string) (*models.Settlement, error) {
	return s.settle(ctx)
}

var testDesc = &models.DestinationDescriptor{
	Callback:    "https://pay.example/callback",
	MinSendable: 1_000,
	MaxSendable: 100_000_000,
	Tag:         "payRequest",
}

var testIntent = &models.PaymentIntent{
	Destination: "alice@pay.example",
	AmountSat:   1000,
}

func TestExecuteSuccess(t *testing.T) {
	settlement := &models.Settlement{
		TxID:        "tx-1",
		PaymentHash: "hash-1",
		Preimage:    "preimage-1",
		AmountSat:   1000,
		FeeSat:      1,
		SuccessAction: &models.SuccessAction{
			Tag:     "message",
			Message: "thanks",
		},
	}
	w := &stubWallet{settle: func(ctx context.Context) (*models.Settlement, error) {
		return settlement, nil
	}}

	e := New(w, time.Second, zap.NewNop())
	res := e.Execute(context.Background(), testDesc, testIntent)

	require.True(t, res.Success)
	assert.Equal(t, "tx-1", res.TxID)
	assert.Equal(t, "hash-1", res.PaymentHash)
	assert.Equal(t, "preimage-1", res.Preimage)
	assert.Equal(t, int64(1000), res.AmountSat)
	assert.Equal(t, int64(1), res.FeeSat)
	require.NotNil(t, res.SuccessAction)
	assert.Equal(t, "thanks", res.SuccessAction.Message)
}

func TestExecuteSDKFailure(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"retryable network error", errors.New("network unreachable"), true},
		{"terminal invoice error", errors.New("invoice expired"), false},
		{"unknown error defaults to retryable", errors.New("weird failure"), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := &stubWallet{settle: func(ctx context.Context) (*models.Settlement, error) {
				return nil, tc.err
			}}
			e := New(w, time.Second, zap.NewNop())

			res := e.Execute(context.Background(), testDesc, testIntent)

			require.False(t, res.Success)
			assert.Equal(t, tc.err.Error(), res.Err)
			assert.Equal(t, tc.retryable, res.Retryable)
		})
	}
}

func TestExecuteTimeout(t *testing.T) {
	w := &stubWallet{settle: func(ctx context.Context) (*models.Settlement, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
			return &models.Settlement{TxID: "too-late"}, nil
		}
	}}
	e := New(w, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	res := e.Execute(context.Background(), testDesc, testIntent)

	require.False(t, res.Success)
	assert.True(t, res.Retryable, "timeouts are retryable")
	assert.Contains(t, res.Err, "timed out")
	assert.Less(t, time.Since(start), 200*time.Millisecond, "timeout must win the race")
}

func TestExecuteCallerCancellation(t *testing.T) {
	w := &stubWallet{settle: func(ctx context.Context) (*models.Settlement, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	e := New(w, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	res := e.Execute(ctx, testDesc, testIntent)

	require.False(t, res.Success)
	assert.Contains(t, res.Err, "cancelled")
	assert.NotContains(t, res.Err, "timed out", "a client disconnect is not a timeout")
	assert.False(t, res.Retryable)
}

func TestExecuteEmptySettlement(t *testing.T) {
	w := &stubWallet{settle: func(ctx context.Context) (*models.Settlement, error) {
		return nil, nil
	}}
	e := New(w, time.Second, zap.NewNop())

	res := e.Execute(context.Background(), testDesc, testIntent)

	require.False(t, res.Success)
	assert.True(t, res.Retryable)
}
