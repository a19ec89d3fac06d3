package executor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/RGPankO/ZapArc-sub002/internal/interfaces"
	"github.com/RGPankO/ZapArc-sub002/internal/metrics"
	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

// Executor performs a single settlement attempt through the wallet SDK,
// bounded by a fixed timeout. It never re-attempts within one invocation;
// at-most-one-settlement is the SDK's guarantee.
type Executor struct {
	wallet  interfaces.WalletSDK
	timeout time.Duration
	logger  *zap.Logger
}

func New(wallet interfaces.WalletSDK, timeout time.Duration, logger *zap.Logger) *Executor {
	return &Executor{wallet: wallet, timeout: timeout, logger: logger}
}

type settleOutcome struct {
	settlement *models.Settlement
	err        error
}

// Execute races one SettlePayment call against the attempt timeout. If the
// timeout wins, the late SDK result is discarded; the result channel is
// buffered so the abandoned goroutine still exits.
func (e *Executor) Execute(ctx context.Context, desc *models.DestinationDescriptor, intent *models.PaymentIntent) models.PaymentResult {
	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.AttemptDuration.Observe(time.Since(start).Seconds())
	}()

	outcome := make(chan settleOutcome, 1)
	go func() {
		s, err := e.wallet.SettlePayment(attemptCtx, desc, intent.AmountSat, intent.Comment)
		outcome <- settleOutcome{settlement: s, err: err}
	}()

	select {
	case <-attemptCtx.Done():
		// The caller going away is not a timeout; report it as such and
		// do not invite a blind retry of an attempt nobody is waiting for.
		if errors.Is(attemptCtx.Err(), context.Canceled) {
			e.logger.Warn("Settlement attempt cancelled by caller",
				zap.String("destination", intent.Destination),
			)
			metrics.ExecutionAttempts.WithLabelValues("cancelled").Inc()
			return models.FailureResult("payment attempt cancelled", false)
		}
		e.logger.Warn("Settlement attempt timed out",
			zap.String("destination", intent.Destination),
			zap.Duration("timeout", e.timeout),
		)
		metrics.ExecutionAttempts.WithLabelValues("timeout").Inc()
		return models.FailureResult("payment attempt timed out", true)

	case o := <-outcome:
		if o.err != nil {
			metrics.ExecutionAttempts.WithLabelValues("error").Inc()
			return models.FailureResult(o.err.Error(), Retryable(o.err.Error()))
		}
		if o.settlement == nil {
			metrics.ExecutionAttempts.WithLabelValues("error").Inc()
			return models.FailureResult("wallet returned empty settlement", true)
		}
		metrics.ExecutionAttempts.WithLabelValues("success").Inc()
		return models.SettlementResult(o.settlement)
	}
}
