package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RGPankO/ZapArc-sub002/internal/config"
	"github.com/RGPankO/ZapArc-sub002/internal/executor"
	"github.com/RGPankO/ZapArc-sub002/internal/interfaces"
	"github.com/RGPankO/ZapArc-sub002/internal/metrics"
	"github.com/RGPankO/ZapArc-sub002/internal/models"
	"github.com/RGPankO/ZapArc-sub002/internal/preflight"
	"github.com/RGPankO/ZapArc-sub002/internal/registry"
	"github.com/RGPankO/ZapArc-sub002/internal/resolver"
)

var (
	ErrEmptyDestination  = errors.New("destination must not be empty")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrCommentTooLong    = errors.New("comment exceeds maximum length")
)

// Engine coordinates the payment pipeline: preflight, resolution,
// validation, and the bounded retry loop around the executor. It is the
// only component that drives record transitions, and it does so solely
// through registry entry points.
type Engine struct {
	cfg       *config.Config
	registry  *registry.Registry
	preflight *preflight.Checker
	resolver  *resolver.Resolver
	executor  *executor.Executor
	history   interfaces.PaymentHistoryRepository
	logger    *zap.Logger
}

// NewEngine wires the pipeline. history may be nil to disable archiving.
func NewEngine(
	cfg *config.Config,
	wallet interfaces.WalletSDK,
	reg *registry.Registry,
	history interfaces.PaymentHistoryRepository,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cfg:       cfg,
		registry:  reg,
		preflight: preflight.NewChecker(wallet),
		resolver:  resolver.NewResolver(wallet),
		executor:  executor.New(wallet, cfg.AttemptTimeout, logger),
		history:   history,
		logger:    logger,
	}
}

// CreatePayment registers a pending record for the intent and starts its
// pipeline asynchronously. The returned id is usable immediately for
// subscription and cancellation.
func (e *Engine) CreatePayment(intent *models.PaymentIntent) (string, error) {
	if strings.TrimSpace(intent.Destination) == "" {
		return "", ErrEmptyDestination
	}
	if intent.AmountSat <= 0 {
		return "", ErrNonPositiveAmount
	}
	if len(intent.Comment) > e.cfg.MaxCommentLength {
		return "", fmt.Errorf("%w (%d > %d)", ErrCommentTooLong, len(intent.Comment), e.cfg.MaxCommentLength)
	}

	id := e.registry.Create(intent, e.cfg.MaxRetries)
	metrics.PaymentsCreated.Inc()

	e.logger.Info("Payment created",
		zap.String("payment_id", id),
		zap.Int64("amount_sat", intent.AmountSat),
	)

	snapshot := *intent
	go e.run(id, &snapshot)
	return id, nil
}

// GetStatus returns a snapshot of the record, if tracked.
func (e *Engine) GetStatus(id string) (*models.PaymentRecord, bool) {
	return e.registry.Get(id)
}

// ListActive returns all currently tracked records.
func (e *Engine) ListActive() []*models.PaymentRecord {
	return e.registry.List()
}

// Subscribe registers the status callback for a payment.
func (e *Engine) Subscribe(id string, cb registry.Callback) bool {
	return e.registry.Subscribe(id, cb)
}

// Cancel pre-empts a pending payment.
func (e *Engine) Cancel(id string) bool {
	return e.registry.Cancel(id)
}

// run is the per-payment pipeline. It executes on its own goroutine with a
// background context: the creating call has already returned.
func (e *Engine) run(id string, intent *models.PaymentIntent) {
	ctx := context.Background()

	if perr := e.preflight.Check(ctx, intent); perr != nil {
		e.finalize(id, models.StatusFailed, perr.Msg, "preflight")
		return
	}

	desc, err := e.resolver.Resolve(ctx, intent.Destination)
	if err != nil {
		e.finalize(id, models.StatusFailed, err.Error(), "resolution")
		return
	}

	if err := resolver.ValidateAmount(intent.AmountSat, desc); err != nil {
		e.finalize(id, models.StatusFailed, err.Error(), "validation")
		return
	}

	// A cancel that lands before this point wins; the pipeline stops here.
	if !e.registry.MarkProcessing(id) {
		e.logger.Info("Payment pre-empted before processing", zap.String("payment_id", id))
		return
	}

	var lastErr string
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		e.registry.MarkAttempt(id, attempt)
		if attempt > 0 {
			metrics.RetriesExecuted.Inc()
		}

		res := e.executor.Execute(ctx, desc, intent)
		if res.Success {
			e.logger.Info("Payment completed",
				zap.String("payment_id", id),
				zap.String("tx_id", res.TxID),
				zap.Int("attempt", attempt),
			)
			e.finalize(id, models.StatusCompleted, "", "execution")
			return
		}

		lastErr = res.Err
		e.logger.Warn("Payment attempt failed",
			zap.String("payment_id", id),
			zap.Int("attempt", attempt),
			zap.Bool("retryable", res.Retryable),
			zap.String("error", lastErr),
		)

		if !res.Retryable {
			e.finalize(id, models.StatusFailed, lastErr, "execution")
			return
		}
		if attempt == e.cfg.MaxRetries {
			break
		}
		time.Sleep(e.retryDelay(attempt))
	}

	msg := fmt.Sprintf("Payment failed after %d attempts: %s", e.cfg.MaxRetries+1, lastErr)
	e.finalize(id, models.StatusFailed, msg, "execution")
}

// Retry performs one user-initiated attempt on a terminally failed record.
// The destination is re-resolved because its limits may have changed since
// the original run. Exactly one attempt is made; the automatic loop does
// not restart.
func (e *Engine) Retry(ctx context.Context, id string) models.PaymentResult {
	rec, ok := e.registry.Get(id)
	if !ok {
		return models.FailureResult("payment not found", false)
	}
	if rec.Status != models.StatusFailed {
		return models.FailureResult("only failed payments can be retried", false)
	}
	if rec.RetryCount >= rec.MaxRetries {
		metrics.ManualRetries.WithLabelValues("rejected").Inc()
		return models.FailureResult("retry budget exhausted, create a new payment", false)
	}

	desc, err := e.resolver.Resolve(ctx, rec.Destination)
	if err != nil {
		e.registry.SetError(id, err.Error())
		metrics.ManualRetries.WithLabelValues("failed").Inc()
		return models.FailureResult(err.Error(), false)
	}
	if err := resolver.ValidateAmount(rec.AmountSat, desc); err != nil {
		e.registry.SetError(id, err.Error())
		metrics.ManualRetries.WithLabelValues("failed").Inc()
		return models.FailureResult(err.Error(), false)
	}

	count, ok := e.registry.Reprocess(id)
	if !ok {
		// Lost a race with another retry or a cancellation; the registry
		// guards the budget, so report the current state accurately.
		if cur, found := e.registry.Get(id); found && cur.Status == models.StatusFailed {
			metrics.ManualRetries.WithLabelValues("rejected").Inc()
			return models.FailureResult("retry budget exhausted, create a new payment", false)
		}
		return models.FailureResult("only failed payments can be retried", false)
	}

	e.logger.Info("Manual retry started",
		zap.String("payment_id", id),
		zap.Int("retry_count", count),
	)

	intent := &models.PaymentIntent{
		Destination: rec.Destination,
		AmountSat:   rec.AmountSat,
		Comment:     rec.Comment,
	}
	res := e.executor.Execute(ctx, desc, intent)
	if res.Success {
		metrics.ManualRetries.WithLabelValues("success").Inc()
		e.finalize(id, models.StatusCompleted, "", "manual_retry")
		return res
	}

	metrics.ManualRetries.WithLabelValues("failed").Inc()
	e.finalize(id, models.StatusFailed, res.Err, "manual_retry")
	res.Retryable = res.Retryable && count < rec.MaxRetries
	return res
}

func (e *Engine) retryDelay(attempt int) time.Duration {
	delays := e.cfg.RetryDelays
	if attempt >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[attempt]
}

func (e *Engine) finalize(id string, status models.PaymentStatus, errMsg, stage string) {
	snap, ok := e.registry.Finalize(id, status, errMsg)
	if !ok {
		return
	}
	metrics.PaymentOutcomes.WithLabelValues(string(status), stage).Inc()

	if errMsg != "" {
		e.logger.Warn("Payment finalized",
			zap.String("payment_id", id),
			zap.String("status", string(status)),
			zap.String("stage", stage),
			zap.String("error", errMsg),
		)
	}

	if e.history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.history.Archive(ctx, snap); err != nil {
			e.logger.Error("Failed to archive payment record",
				zap.String("payment_id", id),
				zap.Error(err),
			)
		}
	}
}
