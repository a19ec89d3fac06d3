package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

// Simulator is an in-memory WalletSDK used by the demo binary. It accepts
// any destination, pays instantly, and keeps a local balance.
type Simulator struct {
	mu         sync.Mutex
	balanceSat int64
	connected  bool
	settleLag  time.Duration
}

func NewSimulator(balanceSat int64) *Simulator {
	return &Simulator{balanceSat: balanceSat, connected: true, settleLag: 200 * time.Millisecond}
}

func (s *Simulator) ParseDestination(ctx context.Context, raw string) (*models.DestinationDescriptor, error) {
	return &models.DestinationDescriptor{
		Callback:    raw,
		MinSendable: 1_000,           // 1 sat
		MaxSendable: 100_000_000_000, // 100k sat
		Tag:         "payRequest",
	}, nil
}

func (s *Simulator) IsConnected(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Simulator) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

func (s *Simulator) Balance(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceSat, nil
}

func (s *Simulator) SettlePayment(ctx context.Context, desc *models.DestinationDescriptor, amountSat int64, comment string) (*models.Settlement, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.settleLag):
	}

	fee := amountSat / 1000
	if fee < 1 {
		fee = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balanceSat < amountSat+fee {
		return nil, fmt.Errorf("insufficient balance: have %d sat", s.balanceSat)
	}
	s.balanceSat -= amountSat + fee

	return &models.Settlement{
		TxID:        uuid.NewString(),
		PaymentHash: randomHex(32),
		Preimage:    randomHex(32),
		AmountSat:   amountSat,
		FeeSat:      fee,
	}, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
