package preflight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

type stubWallet struct {
	connected      bool
	balance        int64
	balanceErr     error
	connectedCalls int
	balanceCalls   int
}

func (s *stubWallet) ParseDestination(ctx context.Context, raw string) (*models.DestinationDescriptor, error) {
	return nil, errors.New("not implemented")
}

func (s *stubWallet) IsConnected(ctx context.Context) bool {
	s.connectedCalls++
	return s.connected
}

func (s *stubWallet) Balance(ctx context.Context) (int64, error) {
	s.balanceCalls++
	return s.balance, s.balanceErr
}

func (s *stubWallet) SettlePayment(ctx context.Context, desc *models.DestinationDescriptor, amountSat int64, comment string) (*models.Settlement, error) {
	return nil, errors.New("not implemented")
}

func TestEstimatedFee(t *testing.T) {
	tests := []struct {
		amountSat int64
		expected  int64
	}{
		{1, 1},
		{999, 1},
		{1000, 1},
		{1001, 1},
		{5000, 5},
		{100_000, 100},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, EstimatedFee(tc.amountSat), "amount %d", tc.amountSat)
	}
}

func TestCheckSkipsExternalBackends(t *testing.T) {
	w := &stubWallet{}
	c := NewChecker(w)

	err := c.Check(context.Background(), &models.PaymentIntent{
		Destination: "alice@pay.example",
		AmountSat:   1000,
	})

	require.Nil(t, err)
	assert.Zero(t, w.connectedCalls)
	assert.Zero(t, w.balanceCalls)
}

func TestCheckWalletNotConnected(t *testing.T) {
	w := &stubWallet{connected: false}
	c := NewChecker(w)

	err := c.Check(context.Background(), &models.PaymentIntent{
		Destination:      "alice@pay.example",
		AmountSat:        1000,
		UseBuiltinWallet: true,
	})

	require.NotNil(t, err)
	assert.Equal(t, ReasonWalletNotConnected, err.Reason)
	assert.True(t, err.Retryable)
	assert.Zero(t, w.balanceCalls, "balance must not be queried when disconnected")
}

func TestCheckBalanceQueryFailed(t *testing.T) {
	w := &stubWallet{connected: true, balanceErr: errors.New("node unavailable")}
	c := NewChecker(w)

	err := c.Check(context.Background(), &models.PaymentIntent{
		Destination:      "alice@pay.example",
		AmountSat:        1000,
		UseBuiltinWallet: true,
	})

	require.NotNil(t, err)
	assert.Equal(t, ReasonBalanceQueryFailed, err.Reason)
	assert.True(t, err.Retryable)
}

func TestCheckInsufficientBalance(t *testing.T) {
	// amount 1000 + fee 1 = 1001 required
	w := &stubWallet{connected: true, balance: 500}
	c := NewChecker(w)

	err := c.Check(context.Background(), &models.PaymentIntent{
		Destination:      "alice@pay.example",
		AmountSat:        1000,
		UseBuiltinWallet: true,
	})

	require.NotNil(t, err)
	assert.Equal(t, ReasonInsufficientBalance, err.Reason)
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Msg, "insufficient balance")
}

func TestCheckPasses(t *testing.T) {
	w := &stubWallet{connected: true, balance: 5000}
	c := NewChecker(w)

	err := c.Check(context.Background(), &models.PaymentIntent{
		Destination:      "alice@pay.example",
		AmountSat:        1000,
		UseBuiltinWallet: true,
	})

	assert.Nil(t, err)
}

func TestCheckBalanceExactlyRequired(t *testing.T) {
	w := &stubWallet{connected: true, balance: 1001}
	c := NewChecker(w)

	err := c.Check(context.Background(), &models.PaymentIntent{
		Destination:      "alice@pay.example",
		AmountSat:        1000,
		UseBuiltinWallet: true,
	})

	assert.Nil(t, err)
}
