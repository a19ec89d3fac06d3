package preflight

import (
	"context"
	"fmt"

	"github.com/RGPankO/ZapArc-sub002/internal/interfaces"
	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

// Reason identifies which preflight check failed.
type Reason string

const (
	ReasonWalletNotConnected  Reason = "wallet_not_connected"
	ReasonBalanceQueryFailed  Reason = "balance_query_failed"
	ReasonInsufficientBalance Reason = "insufficient_balance"
)

// Error is a preflight failure. Retryable means the user can fix the
// underlying condition (unlock the wallet, restore connectivity) and retry;
// an insufficient balance cannot be fixed by retrying.
type Error struct {
	Reason    Reason
	Msg       string
	Retryable bool
}

func (e *Error) Error() string { return e.Msg }

// Checker verifies the payer's local state before any network attempt.
type Checker struct {
	wallet interfaces.WalletSDK
}

func NewChecker(wallet interfaces.WalletSDK) *Checker {
	return &Checker{wallet: wallet}
}

// EstimatedFee is the routing fee reserve required on top of the amount:
// 0.1% of the amount, at least 1 sat.
func EstimatedFee(amountSat int64) int64 {
	fee := amountSat / 1000
	if fee < 1 {
		fee = 1
	}
	return fee
}

// Check runs the preflight sequence for an intent. Intents that use an
// external backend skip preflight entirely. Returns nil on pass.
func (c *Checker) Check(ctx context.Context, intent *models.PaymentIntent) *Error {
	if !intent.UseBuiltinWallet {
		return nil
	}

	if !c.wallet.IsConnected(ctx) {
		return &Error{
			Reason:    ReasonWalletNotConnected,
			Msg:       "wallet is not connected",
			Retryable: true,
		}
	}

	balance, err := c.wallet.Balance(ctx)
	if err != nil {
		return &Error{
			Reason:    ReasonBalanceQueryFailed,
			Msg:       fmt.Sprintf("balance query failed: %v", err),
			Retryable: true,
		}
	}

	required := intent.AmountSat + EstimatedFee(intent.AmountSat)
	if balance < required {
		return &Error{
			Reason:    ReasonInsufficientBalance,
			Msg:       fmt.Sprintf("insufficient balance: have %d sat, need %d sat", balance, required),
			Retryable: false,
		}
	}

	return nil
}
