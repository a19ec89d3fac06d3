package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

type stubWallet struct {
	desc     *models.DestinationDescriptor
	parseErr error
	gotRaw   string
}

func (s *stubWallet) ParseDestination(ctx context.Context, raw string) (*models.DestinationDescriptor, error) {
	s.gotRaw = raw
	return s.desc, s.parseErr
}

func (s *stubWallet) IsConnected(ctx context.Context) bool { return true }

func (s *stubWallet) Balance(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubWallet) SettlePayment(ctx context.Context, desc *models.DestinationDescriptor, amountSat int64, comment string) (*models.Settlement, error) {
	return nil, errors.New("not implemented")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "lightning address",
			raw:      "alice@wallet.example",
			expected: "https://wallet.example/.well-known/lnurlp/alice",
		},
		{
			name:     "lightning scheme stripped",
			raw:      "lightning:bob@pay.example",
			expected: "https://pay.example/.well-known/lnurlp/bob",
		},
		{
			name:     "direct endpoint passes through",
			raw:      "https://pay.example/.well-known/lnurlp/carol",
			expected: "https://pay.example/.well-known/lnurlp/carol",
		},
		{
			name:     "whitespace trimmed",
			raw:      "  dave@pay.example \n",
			expected: "https://pay.example/.well-known/lnurlp/dave",
		},
		{
			name:     "url containing @ is not an address",
			raw:      "https://pay.example/u@x/lnurlp",
			expected: "https://pay.example/u@x/lnurlp",
		},
		{
			name:     "missing name is not an address",
			raw:      "@pay.example",
			expected: "@pay.example",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.raw))
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		desc    *models.DestinationDescriptor
		err     error
		wantErr bool
	}{
		{
			name: "valid pay request",
			raw:  "alice@pay.example",
			desc: &models.DestinationDescriptor{
				Callback:    "https://pay.example/callback",
				MinSendable: 1_000,
				MaxSendable: 100_000_000,
				Tag:         "payRequest",
			},
		},
		{
			name:    "empty destination",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "parser error",
			raw:     "alice@pay.example",
			err:     errors.New("unreachable host"),
			wantErr: true,
		},
		{
			name:    "nil descriptor",
			raw:     "alice@pay.example",
			wantErr: true,
		},
		{
			name: "wrong tag",
			raw:  "alice@pay.example",
			desc: &models.DestinationDescriptor{
				Callback: "https://pay.example/callback",
				Tag:      "withdrawRequest",
			},
			wantErr: true,
		},
		{
			name: "missing callback",
			raw:  "alice@pay.example",
			desc: &models.DestinationDescriptor{
				Tag: "payRequest",
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(&stubWallet{desc: tc.desc, parseErr: tc.err})
			desc, err := r.Resolve(context.Background(), tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrResolution)
				assert.Nil(t, desc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.desc, desc)
		})
	}
}

func TestResolveNormalizesBeforeParsing(t *testing.T) {
	w := &stubWallet{desc: &models.DestinationDescriptor{
		Callback: "https://pay.example/callback",
		Tag:      "payRequest",
	}}
	r := NewResolver(w)

	_, err := r.Resolve(context.Background(), "alice@pay.example")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/.well-known/lnurlp/alice", w.gotRaw)
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountSat int64
		min, max  int64
		wantErr   error
	}{
		{
			name:      "within bounds",
			amountSat: 1000,
			min:       1_000,
			max:       100_000_000,
		},
		{
			name:      "exactly minimum",
			amountSat: 1,
			min:       1_000,
			max:       100_000_000,
		},
		{
			name:      "below minimum",
			amountSat: 1000,
			min:       2_000_000,
			max:       100_000_000,
			wantErr:   ErrAmountTooSmall,
		},
		{
			name:      "above maximum",
			amountSat: 200_000,
			min:       1_000,
			max:       100_000_000,
			wantErr:   ErrAmountTooLarge,
		},
		{
			name:      "no limits published",
			amountSat: 1000,
			wantErr:   ErrLimitsUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			desc := &models.DestinationDescriptor{MinSendable: tc.min, MaxSendable: tc.max}
			err := ValidateAmount(tc.amountSat, desc)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
